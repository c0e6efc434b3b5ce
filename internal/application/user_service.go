package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/intesigroup/user-registry/internal/domain/entity"
	"github.com/intesigroup/user-registry/internal/domain/repository"
	"github.com/intesigroup/user-registry/pkg/codicefiscale"
)

// ErrInvalidCodiceFiscale is returned when a codice fiscale fails the
// structural/checksum check before any store interaction.
var ErrInvalidCodiceFiscale = errors.New("codice fiscale non valido")

// Service owns the user lifecycle: creation, partial update, disable and
// soft delete, plus the soft-invisibility rule for deleted records.
type Service struct {
	Repo      repository.UserRepository
	Publisher EventPublisher
	Logger    *logrus.Logger
}

func NewService(repo repository.UserRepository, pub EventPublisher, logger *logrus.Logger) *Service {
	return &Service{Repo: repo, Publisher: pub, Logger: logger}
}

type CreateUserInput struct {
	Username      string
	Email         string
	CodiceFiscale string
	Nome          string
	Cognome       string
	Roles         []entity.Role
}

// UpdateUserInput carries partial-update fields; nil pointers leave the
// stored value untouched. Email is deliberately absent: it is immutable.
type UpdateUserInput struct {
	Username      *string
	CodiceFiscale *string
	Nome          *string
	Cognome       *string
	Roles         []entity.Role
}

// List returns users whose status is not DELETED, in insertion order.
// Disabled users remain listable.
func (s *Service) List(ctx context.Context, page repository.Page) ([]*entity.User, int64, error) {
	s.Logger.WithFields(logrus.Fields{"page": page.Number, "size": page.Size}).Info("listing users")
	return s.Repo.ListExcludingStatus(ctx, entity.StatusDeleted, page)
}

// Get fetches a user by id. Soft-deleted records are reported as not found
// even though they are physically retained.
func (s *Service) Get(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Status == entity.StatusDeleted {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

// Create validates the codice fiscale checksum and global uniqueness of
// email and codice fiscale, persists the user as ACTIVE, then publishes a
// user.created event best-effort. A publish failure is logged and swallowed;
// it never rolls back or fails the creation.
func (s *Service) Create(ctx context.Context, in CreateUserInput) (*entity.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	cf := strings.ToUpper(strings.TrimSpace(in.CodiceFiscale))

	if !codicefiscale.Valid(cf) {
		return nil, ErrInvalidCodiceFiscale
	}
	// Email first, then codice fiscale; both checks ignore record status so
	// identifiers of deleted users stay reserved.
	if _, err := s.Repo.FindByEmail(ctx, email); err == nil {
		return nil, repository.ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if _, err := s.Repo.FindByCodiceFiscale(ctx, cf); err == nil {
		return nil, repository.ErrCodiceFiscaleTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	u := &entity.User{
		ID:            uuid.NewString(),
		Username:      in.Username,
		Email:         email,
		CodiceFiscale: cf,
		Nome:          in.Nome,
		Cognome:       in.Cognome,
		Roles:         in.Roles,
		Status:        entity.StatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	// The unique constraints remain the final authority: a concurrent write
	// slipping past the checks above still comes back as a conflict.
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "email": u.Email}).Info("user created")

	s.notifyCreated(ctx, u)
	return u, nil
}

func (s *Service) notifyCreated(ctx context.Context, u *entity.User) {
	if s.Publisher == nil {
		return
	}
	event := UserCreatedEvent{ID: u.ID, Email: u.Email, Roles: u.Roles}
	if err := s.Publisher.Publish(ctx, RoutingKeyUserCreated, event); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("user.created publish failed")
	}
}

// Update applies a partial update. The codice fiscale is re-checked for
// conflicts only when it actually changes, excluding the record itself.
func (s *Service) Update(ctx context.Context, id string, in UpdateUserInput) (*entity.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.CodiceFiscale != nil {
		cf := strings.ToUpper(strings.TrimSpace(*in.CodiceFiscale))
		if !codicefiscale.Valid(cf) {
			return nil, ErrInvalidCodiceFiscale
		}
		if cf != u.CodiceFiscale {
			other, err := s.Repo.FindByCodiceFiscale(ctx, cf)
			if err == nil && other.ID != u.ID {
				return nil, repository.ErrCodiceFiscaleTaken
			}
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return nil, err
			}
		}
		u.CodiceFiscale = cf
	}
	if in.Username != nil {
		u.Username = *in.Username
	}
	if in.Nome != nil {
		u.Nome = *in.Nome
	}
	if in.Cognome != nil {
		u.Cognome = *in.Cognome
	}
	if in.Roles != nil {
		u.Roles = in.Roles
	}
	u.UpdatedAt = time.Now().UTC()

	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}
	s.Logger.WithField("user_id", u.ID).Info("user updated")
	return u, nil
}

// Disable moves a user to DISABLED. Disabling an already disabled user is a
// no-op; a deleted user is not found.
func (s *Service) Disable(ctx context.Context, id string) error {
	u, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	u.Status = entity.StatusDisabled
	u.UpdatedAt = time.Now().UTC()
	if err := s.Repo.Update(ctx, u); err != nil {
		return err
	}
	s.Logger.WithField("user_id", u.ID).Info("user disabled")
	return nil
}

// SoftDelete marks a user DELETED without physically removing the row.
// DELETED is terminal: every read path treats the record as absent.
func (s *Service) SoftDelete(ctx context.Context, id string) error {
	u, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	u.Status = entity.StatusDeleted
	u.UpdatedAt = time.Now().UTC()
	if err := s.Repo.Update(ctx, u); err != nil {
		return err
	}
	s.Logger.WithField("user_id", u.ID).Info("user soft-deleted")
	return nil
}
