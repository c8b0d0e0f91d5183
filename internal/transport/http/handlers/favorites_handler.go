package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	favoritessvc "github.com/ivankudzin/truecompanions/backend/internal/services/favorites"
	"github.com/ivankudzin/truecompanions/backend/internal/transport/http/dto"
	httperrors "github.com/ivankudzin/truecompanions/backend/internal/transport/http/errors"
)

type FavoritesHandler struct {
	service *favoritessvc.Service
}

func NewFavoritesHandler(service *favoritessvc.Service) *FavoritesHandler {
	return &FavoritesHandler{service: service}
}

func (h *FavoritesHandler) Add(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req dto.AddFavoriteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	fav, err := h.service.Add(r.Context(), identity.UserID, req.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httperrors.Write(w, http.StatusCreated, fav)
}

func (h *FavoritesHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	items, err := h.service.List(r.Context(), identity.UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httperrors.Write(w, http.StatusOK, items)
}

func (h *FavoritesHandler) Exists(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	exists, err := h.service.Exists(r.Context(), identity.UserID, chi.URLParam(r, "profileId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httperrors.Write(w, http.StatusOK, dto.FavoriteExistsResponse{Exists: exists})
}

func (h *FavoritesHandler) Remove(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	if err := h.service.Remove(r.Context(), identity.UserID, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httperrors.Write(w, http.StatusOK, dto.ModifiedResponse{OK: true})
}
