package handlers

import (
	"net/http"

	mediasvc "github.com/ivankudzin/truecompanions/backend/internal/services/media"
	"github.com/ivankudzin/truecompanions/backend/internal/transport/http/dto"
	httperrors "github.com/ivankudzin/truecompanions/backend/internal/transport/http/errors"
)

const maxImageUploadSize = 20 << 20 // 20 MiB

type MediaHandler struct {
	service *mediasvc.Service
}

func NewMediaHandler(service *mediasvc.Service) *MediaHandler {
	return &MediaHandler{service: service}
}

func (h *MediaHandler) ProfileImage(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "MEDIA_SERVICE_UNAVAILABLE", "media service is unavailable")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageUploadSize)
	if err := r.ParseMultipartForm(maxImageUploadSize); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "file is required")
		return
	}
	defer file.Close()

	if header == nil || header.Size <= 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "file is empty")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	upload, err := h.service.UploadProfileImage(r.Context(), identity.UserID, file, header.Size, contentType)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.MediaUploadResponse{
		Key:       upload.Key,
		URL:       upload.URL,
		ExpiresAt: upload.ExpiresAt,
	})
}
