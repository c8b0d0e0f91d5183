package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/ivankudzin/truecompanions/backend/internal/domain/apperr"
)

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RateLimitError struct {
	Code          string `json:"code"`
	Message       string `json:"message"`
	RetryAfterSec int64  `json:"retry_after_sec"`
}

type retryAfter interface {
	RetryAfterSeconds() int64
}

func Write(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// StatusFor maps an error kind onto the HTTP status clients see.
func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindInvalidInput:
		return http.StatusBadRequest
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// WriteError renders a classified error. Unclassified errors become a
// generic 500 with no internal detail.
func WriteError(w http.ResponseWriter, err error) {
	classified := apperr.As(err)
	status := StatusFor(classified.Kind)

	if status == http.StatusTooManyRequests {
		var ra retryAfter
		var sec int64
		if stderrors.As(err, &ra) {
			sec = ra.RetryAfterSeconds()
			if sec > 0 {
				w.Header().Set("Retry-After", strconv.FormatInt(sec, 10))
			}
		}
		Write(w, status, RateLimitError{Code: classified.Code, Message: classified.Message, RetryAfterSec: sec})
		return
	}

	Write(w, status, APIError{Code: classified.Code, Message: apperr.Message(err)})
}
