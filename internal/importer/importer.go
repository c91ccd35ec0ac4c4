// Package importer loads club records from a JSON document through the
// club service and optionally seeds a user that favorites some of them.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	clubdomain "github.com/Black-And-White-Club/club-review/app/modules/club/domain"
	userdomain "github.com/Black-And-White-Club/club-review/app/modules/user/domain"
	"github.com/Black-And-White-Club/club-review/app/shared/attr"
)

// Format selects the record shape of an import document.
type Format string

const (
	FormatLegacy  Format = "legacy"
	FormatCurrent Format = "current"
)

// ParseFormat accepts "legacy" or "current", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatLegacy, FormatCurrent:
		return f, nil
	}
	return "", fmt.Errorf("unknown import format %q (want legacy or current)", s)
}

// ClubImporter is the part of the club service the importer needs.
type ClubImporter interface {
	ImportClub(ctx context.Context, p clubdomain.Params, createdAt time.Time) (clubdomain.View, error)
}

// UserCreator is the part of the user service the importer needs.
type UserCreator interface {
	CreateUser(ctx context.Context, p userdomain.Params) (userdomain.View, error)
}

// Failure records why one record was skipped.
type Failure struct {
	Index  int    `json:"index"`
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

// Report summarizes an import run.
type Report struct {
	Created  []string  `json:"created"`
	Failures []Failure `json:"failures"`
}

// Failed reports whether any record was skipped.
func (r Report) Failed() bool { return len(r.Failures) > 0 }

type Importer struct {
	clubs  ClubImporter
	users  UserCreator
	logger *slog.Logger
	now    func() time.Time
}

func New(clubs ClubImporter, users UserCreator, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{
		clubs:  clubs,
		users:  users,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

type record struct {
	code      string
	params    clubdomain.Params
	createdAt time.Time
	err       error
}

// Run reads a JSON array of club records from r and creates each one in its
// own transaction. Invalid and duplicate records are reported and skipped.
// An error is returned only when the document itself cannot be read.
func (im *Importer) Run(ctx context.Context, r io.Reader, format Format) (Report, error) {
	records, err := im.decode(r, format)
	if err != nil {
		return Report{}, err
	}

	report := Report{Created: []string{}, Failures: []Failure{}}
	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if rec.err != nil {
			report.Failures = append(report.Failures, Failure{Index: i, Code: rec.code, Reason: rec.err.Error()})
			continue
		}

		view, err := im.clubs.ImportClub(ctx, rec.params, rec.createdAt)
		if err != nil {
			im.logger.WarnContext(ctx, "Skipping club record",
				attr.Int("index", i),
				attr.String("club_code", rec.code),
				attr.Error(err),
			)
			report.Failures = append(report.Failures, Failure{Index: i, Code: rec.code, Reason: err.Error()})
			continue
		}
		report.Created = append(report.Created, view.Code)
	}

	im.logger.InfoContext(ctx, "Club import finished",
		attr.Int("created", len(report.Created)),
		attr.Int("failed", len(report.Failures)),
	)
	return report, nil
}

func (im *Importer) decode(r io.Reader, format Format) ([]record, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode import document: %w", err)
	}

	now := im.now()
	out := make([]record, 0, len(raw))
	for _, msg := range raw {
		switch format {
		case FormatLegacy:
			var lr clubdomain.LegacyRecord
			if err := json.Unmarshal(msg, &lr); err != nil {
				out = append(out, record{err: fmt.Errorf("malformed record: %w", err)})
				continue
			}
			out = append(out, record{code: lr.Code, params: lr.Params(), createdAt: now})
		case FormatCurrent:
			var cr clubdomain.CurrentRecord
			if err := json.Unmarshal(msg, &cr); err != nil {
				out = append(out, record{err: fmt.Errorf("malformed record: %w", err)})
				continue
			}
			createdAt, err := cr.CreatedAt(now)
			out = append(out, record{code: cr.Code, params: cr.Params(), createdAt: createdAt, err: err})
		default:
			return nil, fmt.Errorf("unknown import format %q", format)
		}
	}
	return out, nil
}

// ParseSeedUser reads "username:email:code1,code2". The favorites part is
// optional.
func ParseSeedUser(s string) (userdomain.Params, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) < 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return userdomain.Params{}, fmt.Errorf("seed user must look like name:email[:code1,code2], got %q", s)
	}
	p := userdomain.Params{
		Username:  strings.TrimSpace(parts[0]),
		Email:     strings.TrimSpace(parts[1]),
		Favorites: []string{},
	}
	if len(parts) == 3 {
		for _, code := range strings.Split(parts[2], ",") {
			if code = strings.TrimSpace(code); code != "" {
				p.Favorites = append(p.Favorites, code)
			}
		}
	}
	return p, nil
}

// SeedUser creates the user described by spec (see ParseSeedUser).
func (im *Importer) SeedUser(ctx context.Context, spec string) (userdomain.View, error) {
	if im.users == nil {
		return userdomain.View{}, fmt.Errorf("no user service configured")
	}
	p, err := ParseSeedUser(spec)
	if err != nil {
		return userdomain.View{}, err
	}
	view, err := im.users.CreateUser(ctx, p)
	if err != nil {
		return userdomain.View{}, fmt.Errorf("failed to seed user %s: %w", p.Username, err)
	}
	im.logger.InfoContext(ctx, "Seeded user",
		attr.String("username", view.Username),
		attr.Int("favorites", len(p.Favorites)),
	)
	return view, nil
}
