package handlers

import (
	"net/http"

	storiessvc "github.com/ivankudzin/truecompanions/backend/internal/services/stories"
	"github.com/ivankudzin/truecompanions/backend/internal/transport/http/dto"
	httperrors "github.com/ivankudzin/truecompanions/backend/internal/transport/http/errors"
)

type StoriesHandler struct {
	service *storiessvc.Service
}

func NewStoriesHandler(service *storiessvc.Service) *StoriesHandler {
	return &StoriesHandler{service: service}
}

func (h *StoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req dto.StoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	story, err := h.service.Create(r.Context(), identity.UserID, storiessvc.CreateInput{
		SelfSequenceID:    req.SelfBiodataID,
		PartnerSequenceID: req.PartnerBiodataID,
		CoupleImage:       req.CoupleImage,
		Review:            req.Review,
		Rating:            req.Rating,
		MarriageDate:      req.MarriageDate,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httperrors.Write(w, http.StatusCreated, story)
}

func (h *StoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httperrors.Write(w, http.StatusOK, items)
}
