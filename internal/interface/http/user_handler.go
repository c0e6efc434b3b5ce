package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/intesigroup/user-registry/internal/application"
	"github.com/intesigroup/user-registry/internal/domain/entity"
	"github.com/intesigroup/user-registry/internal/domain/repository"
	"github.com/intesigroup/user-registry/internal/interface/middleware"
	"github.com/intesigroup/user-registry/pkg/response"
	"github.com/intesigroup/user-registry/pkg/validation"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type UserHandler struct {
	Svc    *userapp.Service
	Logger *logrus.Logger
}

func NewUserHandler(svc *userapp.Service, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

// privileged reports whether the caller may see unmasked sensitive fields.
func privileged(c *gin.Context) bool {
	return middleware.HasAnyRole(c, entity.RoleOwner, entity.RoleMaintainer)
}

func pageFromQuery(c *gin.Context) repository.Page {
	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil || page < 0 {
		page = 0
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(defaultPageSize)))
	if err != nil || size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return repository.Page{Number: page, Size: size}
}

// fail maps service errors onto the HTTP error taxonomy: 422 for a bad
// codice fiscale, 409 for identifier conflicts, 404 for missing or deleted
// records and an opaque 500 for everything else.
func (h *UserHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, userapp.ErrInvalidCodiceFiscale):
		response.Error[any](c, http.StatusUnprocessableEntity, "invalid input",
			map[string]string{"codiceFiscale": err.Error()})
	case errors.Is(err, repository.ErrEmailTaken), errors.Is(err, repository.ErrCodiceFiscaleTaken):
		response.Error[any](c, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, repository.ErrNotFound):
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
	default:
		h.Logger.WithError(err).Error("unexpected failure")
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
	}
}

func (h *UserHandler) List(c *gin.Context) {
	page := pageFromQuery(c)
	users, total, err := h.Svc.List(c.Request.Context(), page)
	if err != nil {
		h.fail(c, err)
		return
	}
	priv := privileged(c)
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u, priv))
	}
	response.Success(c, http.StatusOK, out, "users",
		pageMeta{Page: page.Number, Size: page.Size, Total: total})
}

func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUserResponse(u, privileged(c)), "user", nil)
}

func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusUnprocessableEntity, "invalid input", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Create(c.Request.Context(), userapp.CreateUserInput{
		Username:      req.Username,
		Email:         req.Email,
		CodiceFiscale: req.CodiceFiscale,
		Nome:          req.Nome,
		Cognome:       req.Cognome,
		Roles:         req.Roles,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	// Creation is restricted to privileged roles, so the body is unmasked.
	response.Success(c, http.StatusCreated, toUserResponse(u, true), "user created", nil)
}

func (h *UserHandler) Update(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusUnprocessableEntity, "invalid input", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Update(c.Request.Context(), c.Param("id"), userapp.UpdateUserInput{
		Username:      req.Username,
		CodiceFiscale: req.CodiceFiscale,
		Nome:          req.Nome,
		Cognome:       req.Cognome,
		Roles:         req.Roles,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUserResponse(u, true), "user updated", nil)
}

func (h *UserHandler) Disable(c *gin.Context) {
	if err := h.Svc.Disable(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) SoftDelete(c *gin.Context) {
	if err := h.Svc.SoftDelete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
