package userdb

import (
	"errors"
	"fmt"

	"github.com/Black-And-White-Club/club-review/app/integrity"
)

// Sentinel errors for the user repository layer. They describe whether rows
// exist; the service decides how to surface them.
var (
	// ErrNotFound indicates the requested user does not exist.
	ErrNotFound = fmt.Errorf("User %w", integrity.ErrNotFound)

	// ErrNoRowsAffected indicates an UPDATE/DELETE matched no rows.
	ErrNoRowsAffected = errors.New("no rows affected")
)
