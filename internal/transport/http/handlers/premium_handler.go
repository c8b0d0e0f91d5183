package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ivankudzin/truecompanions/backend/internal/domain/model"
	premiumsvc "github.com/ivankudzin/truecompanions/backend/internal/services/premium"
	"github.com/ivankudzin/truecompanions/backend/internal/transport/http/dto"
	httperrors "github.com/ivankudzin/truecompanions/backend/internal/transport/http/errors"
)

type PremiumHandler struct {
	service *premiumsvc.Service
}

func NewPremiumHandler(service *premiumsvc.Service) *PremiumHandler {
	return &PremiumHandler{service: service}
}

func (h *PremiumHandler) Request(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	profile, err := h.service.RequestUpgrade(r.Context(), identity.UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httperrors.Write(w, http.StatusOK, profile)
}

func (h *PremiumHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListPending(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httperrors.Write(w, http.StatusOK, items)
}

func (h *PremiumHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.service.Approve)
}

func (h *PremiumHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.service.Reject)
}

func (h *PremiumHandler) decide(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, actor string, ref model.ProfileRef) error) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	ref, err := premiumsvc.ParseRef(chi.URLParam(r, "sequenceId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if err := op(r.Context(), identity.UserID, ref); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httperrors.Write(w, http.StatusOK, dto.ModifiedResponse{OK: true})
}
