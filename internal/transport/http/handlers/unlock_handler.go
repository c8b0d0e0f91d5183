package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	unlocksvc "github.com/ivankudzin/truecompanions/backend/internal/services/unlock"
	"github.com/ivankudzin/truecompanions/backend/internal/transport/http/dto"
	httperrors "github.com/ivankudzin/truecompanions/backend/internal/transport/http/errors"
)

type UnlockHandler struct {
	service *unlocksvc.Service
}

func NewUnlockHandler(service *unlocksvc.Service) *UnlockHandler {
	return &UnlockHandler{service: service}
}

func (h *UnlockHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req dto.UnlockRequestCreate
	if err := decodeLooseJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	created, err := h.service.CreateUnlockRequest(r.Context(), identity.UserID, req.BiodataID, req.TransactionID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httperrors.Write(w, http.StatusCreated, created)
}

func (h *UnlockHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	items, err := h.service.ListMine(r.Context(), identity.UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httperrors.Write(w, http.StatusOK, items)
}

func (h *UnlockHandler) DeleteMine(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteMine(r.Context(), identity.UserID, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httperrors.Write(w, http.StatusOK, dto.ModifiedResponse{OK: true})
}

func (h *UnlockHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListAll(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httperrors.Write(w, http.StatusOK, items)
}

func (h *UnlockHandler) Approve(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	approved, err := h.service.ApproveUnlockRequest(r.Context(), identity.UserID, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httperrors.Write(w, http.StatusOK, approved)
}
