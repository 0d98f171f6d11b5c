// Package storage defines the Storage interface — a contract that any
// database backend must satisfy to work with this application.
//
// Handlers and the import pipeline only depend on this interface, so the
// SQLite, PostgreSQL and in-memory backends are interchangeable and tests
// can pass a fake or a mock.
package storage

//go:generate mockgen -source=storage.go -destination=mocks/mocks.go -package=mocks Storage

import (
	"context"
	"errors"

	"github.com/aanand-mishra/alumni-api/internal/types"
)

var (
	// ErrNotFound is returned when no alumnus matches a lookup.
	ErrNotFound = errors.New("alumni not found")

	// ErrDuplicateEmail is returned by CreateAlumni when the email is
	// already taken. Backends translate their unique-index violation
	// into this error.
	ErrDuplicateEmail = errors.New("alumni with this email already exists")
)

// Storage is the database contract.
type Storage interface {
	// CreateAlumni inserts a record and returns it with ID and timestamps
	// filled in. Fails with ErrDuplicateEmail if the email exists.
	CreateAlumni(ctx context.Context, alumni types.Alumni) (types.Alumni, error)

	// GetAlumniByEmail is a point lookup on the unique email index.
	// Returns ErrNotFound when nothing matches.
	GetAlumniByEmail(ctx context.Context, email string) (types.Alumni, error)

	// ListAlumni returns the records matching filter sorted by department,
	// section and name. Returns an empty slice (not nil) when none match.
	ListAlumni(ctx context.Context, filter types.AlumniFilter) ([]types.Alumni, error)

	// GetSectionStats counts alumni per department/section pair, sorted
	// ascending by department then section.
	GetSectionStats(ctx context.Context) ([]types.SectionStat, error)
}
