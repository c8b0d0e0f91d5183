package handlers

import (
	"net/http"

	paymentsvc "github.com/ivankudzin/truecompanions/backend/internal/services/payments"
	"github.com/ivankudzin/truecompanions/backend/internal/transport/http/dto"
	httperrors "github.com/ivankudzin/truecompanions/backend/internal/transport/http/errors"
)

type PaymentsHandler struct {
	service *paymentsvc.Service
}

func NewPaymentsHandler(service *paymentsvc.Service) *PaymentsHandler {
	return &PaymentsHandler{service: service}
}

func (h *PaymentsHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "PAYMENTS_SERVICE_UNAVAILABLE", "payments service is unavailable")
		return
	}

	var req dto.PaymentIntentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	intent, err := h.service.CreateIntent(r.Context(), identity.UserID, req.Purpose)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httperrors.Write(w, http.StatusOK, intent)
}

func (h *PaymentsHandler) ListMine(w http.ResponseWriter, r *http.Request) {
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

func (h *PaymentsHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httperrors.Write(w, http.StatusOK, items)
}
