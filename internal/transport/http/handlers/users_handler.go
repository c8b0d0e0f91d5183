package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	userssvc "github.com/ivankudzin/truecompanions/backend/internal/services/users"
	"github.com/ivankudzin/truecompanions/backend/internal/transport/http/dto"
	httperrors "github.com/ivankudzin/truecompanions/backend/internal/transport/http/errors"
)

type UsersHandler struct {
	service *userssvc.Service
}

func NewUsersHandler(service *userssvc.Service) *UsersHandler {
	return &UsersHandler{service: service}
}

func (h *UsersHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decodeLooseJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	user, created, err := h.service.Register(r.Context(), userssvc.RegisterInput{
		Email:    req.Email,
		Name:     req.Name,
		PhotoURL: req.PhotoURL,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	httperrors.Write(w, status, dto.RegisterResponse{Created: created, User: user})
}

func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context(), strings.TrimSpace(r.URL.Query().Get("search")))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httperrors.Write(w, http.StatusOK, users)
}

func (h *UsersHandler) IsAdmin(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	admin, err := h.service.IsAdmin(r.Context(), identity.UserID, chi.URLParam(r, "email"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httperrors.Write(w, http.StatusOK, dto.IsAdminResponse{Admin: admin})
}

func (h *UsersHandler) MakeAdmin(w http.ResponseWriter, r *http.Request) {
	h.modify(w, r, h.service.MakeAdmin)
}

func (h *UsersHandler) MakePremium(w http.ResponseWriter, r *http.Request) {
	h.modify(w, r, h.service.MakePremium)
}

func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.modify(w, r, h.service.Delete)
}

func (h *UsersHandler) modify(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, actor, id string) error) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if err := op(r.Context(), identity.UserID, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httperrors.Write(w, http.StatusOK, dto.ModifiedResponse{OK: true})
}
