package handlers

import (
	"net/http"
	"strings"

	"github.com/ivankudzin/truecompanions/backend/internal/domain/enums"
	"github.com/ivankudzin/truecompanions/backend/internal/domain/model"
	profilesvc "github.com/ivankudzin/truecompanions/backend/internal/services/profiles"
	unlocksvc "github.com/ivankudzin/truecompanions/backend/internal/services/unlock"
	"github.com/ivankudzin/truecompanions/backend/internal/transport/http/dto"
	httperrors "github.com/ivankudzin/truecompanions/backend/internal/transport/http/errors"
)

type ProfileHandler struct {
	profiles *profilesvc.Service
	unlock   *unlocksvc.Service
}

func NewProfileHandler(profiles *profilesvc.Service, unlock *unlocksvc.Service) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, unlock: unlock}
}

func (h *ProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req dto.ProfileRequest
	if err := decodeLooseJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	created, err := h.profiles.Create(r.Context(), identity.UserID, req.Details())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httperrors.Write(w, http.StatusCreated, created)
}

func (h *ProfileHandler) UpdateMine(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req dto.ProfileRequest
	if err := decodeLooseJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	updated, err := h.profiles.Update(r.Context(), identity.UserID, req.Details())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httperrors.Write(w, http.StatusOK, updated)
}

func (h *ProfileHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	profile, err := h.profiles.GetOwn(r.Context(), identity.UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httperrors.Write(w, http.StatusOK, profile)
}

// Search serves the public listing: ageMin, ageMax, biodataType, division,
// page and limit are all optional.
func (h *ProfileHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var filter model.ProfileFilter
	for name, target := range map[string]*int{
		"ageMin": &filter.MinAge,
		"ageMax": &filter.MaxAge,
		"page":   &filter.Page,
		"limit":  &filter.Limit,
	} {
		n, ok := queryInt(r, name)
		if !ok {
			writeBadRequest(w, "VALIDATION_ERROR", name+" must be a number")
			return
		}
		*target = n
	}
	filter.BiodataType = enums.BiodataType(strings.TrimSpace(query.Get("biodataType")))
	filter.PermanentDivision = query.Get("division")
	if filter.PermanentDivision == "" {
		filter.PermanentDivision = query.Get("permanentDivision")
	}

	page, err := h.profiles.Search(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httperrors.Write(w, http.StatusOK, page)
}

// Get returns one biodata by its public id. Contact details are included
// only for viewers allowed to see them.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	seq, ok := pathInt64(r, "sequenceId")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "biodata id must be a positive number")
		return
	}

	profile, err := h.unlock.ReadProfileWithVisibility(r.Context(), model.Viewer{
		ID:   identity.UserID,
		Role: identity.Role,
	}, seq)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httperrors.Write(w, http.StatusOK, profile)
}

func (h *ProfileHandler) ListPremium(w http.ResponseWriter, r *http.Request) {
	order := r.URL.Query().Get("order")
	if order == "" {
		order = r.URL.Query().Get("sort")
	}

	items, err := h.profiles.ListPremium(r.Context(), model.SortOrder(strings.ToLower(strings.TrimSpace(order))))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httperrors.Write(w, http.StatusOK, items)
}

func (h *ProfileHandler) IsPremium(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	premium, err := h.profiles.IsPremium(r.Context(), identity.UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httperrors.Write(w, http.StatusOK, dto.IsPremiumResponse{IsPremium: premium})
}

func (h *ProfileHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	page, ok := queryInt(r, "page")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "page must be a number")
		return
	}
	limit, ok := queryInt(r, "limit")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "limit must be a number")
		return
	}

	result, err := h.profiles.AdminList(r.Context(), page, limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httperrors.Write(w, http.StatusOK, result)
}
