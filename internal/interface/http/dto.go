package handlers

import (
	"time"

	"github.com/intesigroup/user-registry/internal/domain/entity"
	"github.com/intesigroup/user-registry/pkg/mask"
)

type createUserRequest struct {
	Username      string        `json:"username" binding:"required,max=100"`
	Email         string        `json:"email" binding:"required,email,max=320"`
	CodiceFiscale string        `json:"codiceFiscale" binding:"required,codicefiscale"`
	Nome          string        `json:"nome" binding:"required,max=80"`
	Cognome       string        `json:"cognome" binding:"required,max=80"`
	Roles         []entity.Role `json:"roles" binding:"required,min=1,unique,dive,oneof=OWNER OPERATOR MAINTAINER DEVELOPER REPORTER"`
}

// updateUserRequest carries partial updates: absent fields leave the stored
// value untouched. Email is immutable and has no field here.
type updateUserRequest struct {
	Username      *string       `json:"username" binding:"omitempty,max=100"`
	CodiceFiscale *string       `json:"codiceFiscale" binding:"omitempty,codicefiscale"`
	Nome          *string       `json:"nome" binding:"omitempty,max=80"`
	Cognome       *string       `json:"cognome" binding:"omitempty,max=80"`
	Roles         []entity.Role `json:"roles" binding:"omitempty,min=1,unique,dive,oneof=OWNER OPERATOR MAINTAINER DEVELOPER REPORTER"`
}

type userResponse struct {
	ID            string        `json:"id"`
	Username      string        `json:"username"`
	Email         string        `json:"email"`
	CodiceFiscale string        `json:"codiceFiscale"`
	Nome          string        `json:"nome"`
	Cognome       string        `json:"cognome"`
	Roles         []entity.Role `json:"roles"`
	Status        entity.Status `json:"status"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// toUserResponse projects a user for the caller. Unprivileged callers get
// email and codice fiscale masked; the stored record is never modified.
func toUserResponse(u *entity.User, privileged bool) userResponse {
	email := u.Email
	cf := u.CodiceFiscale
	if !privileged {
		email = mask.Email(email)
		cf = mask.CodiceFiscale(cf)
	}
	return userResponse{
		ID:            u.ID,
		Username:      u.Username,
		Email:         email,
		CodiceFiscale: cf,
		Nome:          u.Nome,
		Cognome:       u.Cognome,
		Roles:         u.Roles,
		Status:        u.Status,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

type pageMeta struct {
	Page  int   `json:"page"`
	Size  int   `json:"size"`
	Total int64 `json:"total"`
}
