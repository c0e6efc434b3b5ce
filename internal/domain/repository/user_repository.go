package repository

import (
	"context"
	"errors"

	"github.com/intesigroup/user-registry/internal/domain/entity"
)

// Sentinel errors shared by every repository implementation. Services and
// handlers match on these with errors.Is.
var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already in use")
	ErrCodiceFiscaleTaken = errors.New("codice fiscale already in use")
)

// Page is a zero-based page request.
type Page struct {
	Number int
	Size   int
}

// Offset returns the row offset for the page.
func (p Page) Offset() int { return p.Number * p.Size }

// UserRepository is the record-store boundary. Lookups by email and codice
// fiscale are exact-match against the normalized (lower/upper cased) value
// and deliberately do not filter by status: identifiers stay reserved even
// for soft-deleted users. Create and Update must surface unique-constraint
// violations as ErrEmailTaken / ErrCodiceFiscaleTaken so that writes racing
// past the service-level checks still end up as conflicts.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByCodiceFiscale(ctx context.Context, cf string) (*entity.User, error)
	Create(ctx context.Context, u *entity.User) error
	Update(ctx context.Context, u *entity.User) error
	// ListExcludingStatus returns users whose status differs from the given
	// one, in insertion order, plus the total count for pagination meta.
	ListExcludingStatus(ctx context.Context, status entity.Status, page Page) ([]*entity.User, int64, error)
}
