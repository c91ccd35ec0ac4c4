package reviewdb

import (
	"errors"
	"fmt"

	"github.com/Black-And-White-Club/club-review/app/integrity"
)

// Sentinel errors for the review repository layer.
var (
	// ErrNotFound indicates the requested review does not exist.
	ErrNotFound = fmt.Errorf("Review %w", integrity.ErrNotFound)

	// ErrClubNotFound and ErrUserNotFound report a missing parent of a
	// review listing.
	ErrClubNotFound = fmt.Errorf("Club %w", integrity.ErrNotFound)
	ErrUserNotFound = fmt.Errorf("User %w", integrity.ErrNotFound)

	// ErrNoRowsAffected indicates an UPDATE matched no rows.
	ErrNoRowsAffected = errors.New("no rows affected")
)
