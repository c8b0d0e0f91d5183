package handlers

import (
	"net/http"
	"time"

	authsvc "github.com/ivankudzin/truecompanions/backend/internal/services/auth"
	"github.com/ivankudzin/truecompanions/backend/internal/transport/http/dto"
	httperrors "github.com/ivankudzin/truecompanions/backend/internal/transport/http/errors"
)

type AuthHandler struct {
	service *authsvc.Service
}

func NewAuthHandler(service *authsvc.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

// Token exchanges a registered email for an access token.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "AUTH_SERVICE_UNAVAILABLE", "auth service is unavailable")
		return
	}

	var req dto.TokenRequest
	if err := decodeLooseJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	res, err := h.service.IssueToken(r.Context(), req.Email)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.TokenResponse{
		Token:        res.AccessToken,
		ExpiresInSec: maxInt64(0, int64(time.Until(res.AccessExpires).Seconds())),
		Role:         string(res.User.Role),
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "AUTH_SERVICE_UNAVAILABLE", "auth service is unavailable")
		return
	}
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	if err := h.service.Logout(r.Context(), identity.SID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.LogoutResponse{OK: true})
}

func (h *AuthHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "AUTH_SERVICE_UNAVAILABLE", "auth service is unavailable")
		return
	}
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	if err := h.service.LogoutAll(r.Context(), identity.UserID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.LogoutResponse{OK: true})
}
