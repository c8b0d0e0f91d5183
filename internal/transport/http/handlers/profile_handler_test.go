package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ivankudzin/truecompanions/backend/internal/domain/enums"
	"github.com/ivankudzin/truecompanions/backend/internal/domain/model"
	profilesvc "github.com/ivankudzin/truecompanions/backend/internal/services/profiles"
	unlocksvc "github.com/ivankudzin/truecompanions/backend/internal/services/unlock"
)

func newProfileFixture() (*ProfileHandler, *profileStoreStub, *unlockStoreStub) {
	store := &profileStoreStub{items: []model.Profile{{
		ID:         "65f000000000000000000001",
		OwnerID:    "owner@example.com",
		SequenceID: 7,
		ProfileDetails: model.ProfileDetails{
			BiodataType: enums.BiodataTypeFemale,
			Name:        "Amina",
			Age:         27,
			Contact:     &model.ContactInfo{Email: "amina@example.com", MobileNumber: "+8801700000000"},
		},
		PremiumStatus: enums.PremiumStatusNone,
	}}}
	requests := &unlockStoreStub{}
	profiles := profilesvc.NewService(store, profilesvc.Limits{NameMaxLength: 120, ImageMaxLength: 2048})
	unlock := unlocksvc.NewService(requests, store, nil, unlocksvc.Price{AmountCents: 500, Currency: "usd"})
	return NewProfileHandler(profiles, unlock), store, requests
}

func TestProfileSearchParsesQueryAndStripsContact(t *testing.T) {
	handler, store, _ := newProfileFixture()

	req := httptest.NewRequest(http.MethodGet, "/biodatas?ageMin=20&ageMax=30&biodataType=female&division=Dhaka&page=1&limit=6", nil)
	rr := httptest.NewRecorder()
	handler.Search(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d (%s)", rr.Code, http.StatusOK, rr.Body.String())
	}
	if store.lastFilter.MinAge != 20 || store.lastFilter.MaxAge != 30 {
		t.Fatalf("age range not forwarded: %+v", store.lastFilter)
	}
	if store.lastFilter.BiodataType != enums.BiodataTypeFemale || store.lastFilter.PermanentDivision != "Dhaka" {
		t.Fatalf("filters not forwarded: %+v", store.lastFilter)
	}

	var page model.ProfilePage
	if err := json.Unmarshal(rr.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if page.Total != 1 || len(page.Items) != 1 {
		t.Fatalf("unexpected page: %+v", page)
	}
	if page.Items[0].Contact != nil {
		t.Fatalf("search results must not carry contact info")
	}
}

func TestProfileSearchRejectsMalformedNumber(t *testing.T) {
	handler, _, _ := newProfileFixture()

	req := httptest.NewRequest(http.MethodGet, "/biodatas?ageMin=twenty", nil)
	rr := httptest.NewRecorder()
	handler.Search(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestProfileGetVisibilityByViewer(t *testing.T) {
	cases := []struct {
		name        string
		email       string
		role        enums.Role
		approved    bool
		wantContact bool
	}{
		{name: "plain user", email: "user@example.com", role: enums.RoleUser},
		{name: "premium", email: "p@example.com", role: enums.RolePremium, wantContact: true},
		{name: "admin", email: "a@example.com", role: enums.RoleAdmin, wantContact: true},
		{name: "owner", email: "owner@example.com", role: enums.RoleUser, wantContact: true},
		{name: "approved unlock", email: "buyer@example.com", role: enums.RoleUser, approved: true, wantContact: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler, _, requests := newProfileFixture()
			if tc.approved {
				requests.requests = append(requests.requests, model.ContactUnlockRequest{
					ID:               "req-1",
					RequesterID:      tc.email,
					TargetSequenceID: 7,
					Status:           enums.UnlockStatusApproved,
				})
			}

			req := httptest.NewRequest(http.MethodGet, "/biodatas/7", nil)
			req = asUser(req, tc.email, tc.role)
			req = req.WithContext(withURLParam(req.Context(), "sequenceId", "7"))
			rr := httptest.NewRecorder()
			handler.Get(rr, req)

			if rr.Code != http.StatusOK {
				t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusOK)
			}
			hasContact := strings.Contains(rr.Body.String(), `"contactInfo"`)
			if hasContact != tc.wantContact {
				t.Fatalf("contact visibility = %v, want %v", hasContact, tc.wantContact)
			}
		})
	}
}

func TestProfileGetRequiresIdentityAndNumericID(t *testing.T) {
	handler, _, _ := newProfileFixture()

	rr := httptest.NewRecorder()
	handler.Get(rr, httptest.NewRequest(http.MethodGet, "/biodatas/7", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status without identity: got %d", rr.Code)
	}

	req := asUser(httptest.NewRequest(http.MethodGet, "/biodatas/abc", nil), "user@example.com", enums.RoleUser)
	req = req.WithContext(withURLParam(req.Context(), "sequenceId", "abc"))
	rr = httptest.NewRecorder()
	handler.Get(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status for bad id: got %d", rr.Code)
	}

	req = asUser(httptest.NewRequest(http.MethodGet, "/biodatas/99", nil), "user@example.com", enums.RoleUser)
	req = req.WithContext(withURLParam(req.Context(), "sequenceId", "99"))
	rr = httptest.NewRecorder()
	handler.Get(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("unexpected status for unknown id: got %d", rr.Code)
	}
}

func TestProfileCreateAcceptsWholeDocumentAndRejectsSecond(t *testing.T) {
	handler, store, _ := newProfileFixture()

	body := `{"biodataType":"Male","name":"Rahim","age":30,"permanentDivision":"Sylhet","contactEmail":"rahim@example.com","mobileNumber":"+880","_id":"ignored","biodataId":999}`
	req := asUser(httptest.NewRequest(http.MethodPost, "/biodatas", strings.NewReader(body)), "rahim@example.com", enums.RoleUser)
	rr := httptest.NewRecorder()
	handler.Create(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("unexpected status: got %d want %d (%s)", rr.Code, http.StatusCreated, rr.Body.String())
	}
	created := store.items[len(store.items)-1]
	if created.SequenceID != 8 {
		t.Fatalf("client supplied biodata id must be ignored, got %d", created.SequenceID)
	}
	if created.Contact == nil || created.Contact.Email != "rahim@example.com" {
		t.Fatalf("flat contact fields not mapped: %+v", created.Contact)
	}

	req = asUser(httptest.NewRequest(http.MethodPost, "/biodatas", strings.NewReader(body)), "rahim@example.com", enums.RoleUser)
	rr = httptest.NewRecorder()
	handler.Create(rr, req)
	if rr.Code != http.StatusConflict {
		t.Fatalf("second profile: got %d want %d", rr.Code, http.StatusConflict)
	}
}
