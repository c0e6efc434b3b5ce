package application

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"

	"github.com/intesigroup/user-registry/internal/domain/entity"
	"github.com/intesigroup/user-registry/internal/domain/repository"
	"github.com/intesigroup/user-registry/internal/infrastructure/memory"
)

type recordingPublisher struct {
	events []UserCreatedEvent
	keys   []string
	fail   bool
}

func (p *recordingPublisher) Publish(_ context.Context, routingKey string, body any) error {
	if p.fail {
		return errors.New("broker down")
	}
	p.keys = append(p.keys, routingKey)
	if ev, ok := body.(UserCreatedEvent); ok {
		p.events = append(p.events, ev)
	}
	return nil
}

type UserServiceSuite struct {
	suite.Suite
	repo *memory.UserRepository
	pub  *recordingPublisher
	svc  *Service
	ctx  context.Context
}

func (s *UserServiceSuite) SetupTest() {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	s.repo = memory.NewUserRepository()
	s.pub = &recordingPublisher{}
	s.svc = NewService(s.repo, s.pub, logger)
	s.ctx = context.Background()
}

func TestUserServiceSuite(t *testing.T) {
	suite.Run(t, new(UserServiceSuite))
}

func (s *UserServiceSuite) input() CreateUserInput {
	return CreateUserInput{
		Username:      "mrossi",
		Email:         "m.rossi@example.com",
		CodiceFiscale: "RSSMRA80A01H501U",
		Nome:          "Mario",
		Cognome:       "Rossi",
		Roles:         []entity.Role{entity.RoleDeveloper},
	}
}

func (s *UserServiceSuite) TestCreate() {
	s.Run("assigns id, ACTIVE status and timestamps", func() {
		u, err := s.svc.Create(s.ctx, s.input())
		s.Require().NoError(err)
		s.NotEmpty(u.ID)
		s.Equal(entity.StatusActive, u.Status)
		s.False(u.CreatedAt.IsZero())
		s.Equal(u.CreatedAt, u.UpdatedAt)
	})

	s.Run("publishes a user.created event", func() {
		s.Require().Len(s.pub.events, 1)
		s.Equal([]string{RoutingKeyUserCreated}, s.pub.keys)
		s.Equal("m.rossi@example.com", s.pub.events[0].Email)
	})
}

func (s *UserServiceSuite) TestCreateNormalizesIdentifiers() {
	in := s.input()
	in.Email = "M.ROSSI@Example.COM"
	in.CodiceFiscale = "rssmra80a01h501u"
	u, err := s.svc.Create(s.ctx, in)
	s.Require().NoError(err)
	s.Equal("m.rossi@example.com", u.Email)
	s.Equal("RSSMRA80A01H501U", u.CodiceFiscale)
}

func (s *UserServiceSuite) TestCreateRejectsBadChecksum() {
	in := s.input()
	in.CodiceFiscale = "RSSMRA80A01H501A"
	_, err := s.svc.Create(s.ctx, in)
	s.Require().ErrorIs(err, ErrInvalidCodiceFiscale)
	// Rejected before any store interaction
	_, _, listErr := s.repo.ListExcludingStatus(s.ctx, entity.StatusDeleted, repository.Page{Size: 10})
	s.Require().NoError(listErr)
	s.Empty(s.pub.events)
}

func (s *UserServiceSuite) TestCreateConflicts() {
	_, err := s.svc.Create(s.ctx, s.input())
	s.Require().NoError(err)

	s.Run("duplicate email, case-insensitive", func() {
		in := s.input()
		in.Email = "M.Rossi@example.com"
		in.CodiceFiscale = "BNCLGU85T10A562Y"
		_, err := s.svc.Create(s.ctx, in)
		s.Require().ErrorIs(err, repository.ErrEmailTaken)
	})

	s.Run("duplicate codice fiscale, case-insensitive", func() {
		in := s.input()
		in.Email = "other@example.com"
		in.CodiceFiscale = "rssmra80a01h501u"
		_, err := s.svc.Create(s.ctx, in)
		s.Require().ErrorIs(err, repository.ErrCodiceFiscaleTaken)
	})

	s.Run("email is reported before codice fiscale", func() {
		in := s.input() // both identifiers taken
		_, err := s.svc.Create(s.ctx, in)
		s.Require().ErrorIs(err, repository.ErrEmailTaken)
	})
}

func (s *UserServiceSuite) TestCreateSurvivesPublishFailure() {
	s.pub.fail = true
	u, err := s.svc.Create(s.ctx, s.input())
	s.Require().NoError(err)

	got, err := s.svc.Get(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Equal(u.ID, got.ID)
}

func (s *UserServiceSuite) TestUpdatePartial() {
	u, err := s.svc.Create(s.ctx, s.input())
	s.Require().NoError(err)

	nome := "Maria"
	updated, err := s.svc.Update(s.ctx, u.ID, UpdateUserInput{Nome: &nome})
	s.Require().NoError(err)
	s.Equal("Maria", updated.Nome)
	s.Equal(u.Username, updated.Username)
	s.Equal(u.Email, updated.Email)
	s.Equal(u.CodiceFiscale, updated.CodiceFiscale)
	s.Equal(u.Roles, updated.Roles)
	s.False(updated.UpdatedAt.Before(u.CreatedAt))
}

func (s *UserServiceSuite) TestUpdateCodiceFiscale() {
	u1, err := s.svc.Create(s.ctx, s.input())
	s.Require().NoError(err)

	in2 := s.input()
	in2.Email = "l.bianchi@example.com"
	in2.CodiceFiscale = "BNCLGU85T10A562Y"
	u2, err := s.svc.Create(s.ctx, in2)
	s.Require().NoError(err)

	s.Run("same value skips the conflict check", func() {
		cf := "rssmra80a01h501u" // normalizes to the current value
		got, err := s.svc.Update(s.ctx, u1.ID, UpdateUserInput{CodiceFiscale: &cf})
		s.Require().NoError(err)
		s.Equal("RSSMRA80A01H501U", got.CodiceFiscale)
	})

	s.Run("taken value conflicts", func() {
		cf := u2.CodiceFiscale
		_, err := s.svc.Update(s.ctx, u1.ID, UpdateUserInput{CodiceFiscale: &cf})
		s.Require().ErrorIs(err, repository.ErrCodiceFiscaleTaken)
	})

	s.Run("fresh value is normalized and stored", func() {
		cf := "vrdnna90d41f205s"
		got, err := s.svc.Update(s.ctx, u1.ID, UpdateUserInput{CodiceFiscale: &cf})
		s.Require().NoError(err)
		s.Equal("VRDNNA90D41F205S", got.CodiceFiscale)
	})

	s.Run("invalid checksum is rejected", func() {
		cf := "VRDNNA90D41F205X"
		_, err := s.svc.Update(s.ctx, u1.ID, UpdateUserInput{CodiceFiscale: &cf})
		s.Require().ErrorIs(err, ErrInvalidCodiceFiscale)
	})
}

func (s *UserServiceSuite) TestDisableIsIdempotent() {
	u, err := s.svc.Create(s.ctx, s.input())
	s.Require().NoError(err)

	s.Require().NoError(s.svc.Disable(s.ctx, u.ID))
	s.Require().NoError(s.svc.Disable(s.ctx, u.ID))

	got, err := s.svc.Get(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Equal(entity.StatusDisabled, got.Status)
}

func (s *UserServiceSuite) TestSoftDeleteIsTerminal() {
	u, err := s.svc.Create(s.ctx, s.input())
	s.Require().NoError(err)

	s.Require().NoError(s.svc.SoftDelete(s.ctx, u.ID))

	_, err = s.svc.Get(s.ctx, u.ID)
	s.Require().ErrorIs(err, repository.ErrNotFound)

	// No operation can resurrect a deleted record
	s.Require().ErrorIs(s.svc.Disable(s.ctx, u.ID), repository.ErrNotFound)
	nome := "Maria"
	_, err = s.svc.Update(s.ctx, u.ID, UpdateUserInput{Nome: &nome})
	s.Require().ErrorIs(err, repository.ErrNotFound)
	s.Require().ErrorIs(s.svc.SoftDelete(s.ctx, u.ID), repository.ErrNotFound)
}

func (s *UserServiceSuite) TestDeletedIdentifiersStayReserved() {
	u, err := s.svc.Create(s.ctx, s.input())
	s.Require().NoError(err)
	s.Require().NoError(s.svc.SoftDelete(s.ctx, u.ID))

	_, err = s.svc.Create(s.ctx, s.input())
	s.Require().ErrorIs(err, repository.ErrEmailTaken)
}

func (s *UserServiceSuite) TestListExcludesDeletedIncludesDisabled() {
	active, err := s.svc.Create(s.ctx, s.input())
	s.Require().NoError(err)

	in2 := s.input()
	in2.Email = "l.bianchi@example.com"
	in2.CodiceFiscale = "BNCLGU85T10A562Y"
	disabled, err := s.svc.Create(s.ctx, in2)
	s.Require().NoError(err)
	s.Require().NoError(s.svc.Disable(s.ctx, disabled.ID))

	in3 := s.input()
	in3.Email = "a.verdi@example.com"
	in3.CodiceFiscale = "VRDNNA90D41F205S"
	deleted, err := s.svc.Create(s.ctx, in3)
	s.Require().NoError(err)
	s.Require().NoError(s.svc.SoftDelete(s.ctx, deleted.ID))

	users, total, err := s.svc.List(s.ctx, repository.Page{Number: 0, Size: 10})
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Require().Len(users, 2)
	s.Equal(active.ID, users[0].ID)
	s.Equal(disabled.ID, users[1].ID)
}

func (s *UserServiceSuite) TestGetUnknownID() {
	_, err := s.svc.Get(s.ctx, "f2d9a1de-0000-4000-8000-000000000000")
	s.Require().ErrorIs(err, repository.ErrNotFound)
}
