package alumni

import (
	"context"
	"errors"

	"github.com/aanand-mishra/alumni-api/internal/storage"
)

// DuplicateChecker looks up the store's unique email index.
type DuplicateChecker struct {
	store storage.Storage
}

// NewDuplicateChecker returns a checker backed by store.
func NewDuplicateChecker(store storage.Storage) *DuplicateChecker {
	return &DuplicateChecker{store: store}
}

// Exists reports whether a record with email is already stored.
func (d *DuplicateChecker) Exists(ctx context.Context, email string) (bool, error) {
	_, err := d.store.GetAlumniByEmail(ctx, email)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, storage.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}
