package handler

import (
	"net/http"

	"github.com/segyhp/microloan-engine/internal/domain"
	"github.com/segyhp/microloan-engine/internal/service"
	"github.com/segyhp/microloan-engine/pkg/response"

	"github.com/go-playground/validator/v10"
)

type UserHandler struct {
	service   *service.UserService
	validator *validator.Validate
}

func NewUserHandler(service *service.UserService) *UserHandler {
	return &UserHandler{
		service:   service,
		validator: NewValidator(),
	}
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateUserRequest
	if !decodeAndValidate(w, r, h.validator, &request) {
		return
	}

	user, err := h.service.CreateUser(r.Context(), PrincipalFrom(r.Context()), &request)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, user)
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.ListUsers(r.Context(), PrincipalFrom(r.Context()), queryInt(r, "page"), queryInt(r, "page_size"))
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, resp)
}

func (h *UserHandler) SetUserActive(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var request domain.SetUserActiveRequest
	if !decodeAndValidate(w, r, h.validator, &request) {
		return
	}

	if err := h.service.SetUserActive(r.Context(), PrincipalFrom(r.Context()), id, *request.IsActive); err != nil {
		response.FromError(w, err)
		return
	}

	response.NoContent(w)
}
