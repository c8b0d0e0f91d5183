package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ivankudzin/truecompanions/backend/internal/transport/http/dto"
)

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/favorites", strings.NewReader(`{"id":"x","extra":1}`))
	var body dto.AddFavoriteRequest
	if err := decodeJSON(req, &body); err == nil {
		t.Fatalf("expected unknown field error")
	}

	req = httptest.NewRequest(http.MethodPost, "/biodatas", strings.NewReader(`{"name":"x","extra":1}`))
	var profile dto.ProfileRequest
	if err := decodeLooseJSON(req, &profile); err != nil {
		t.Fatalf("loose decode: %v", err)
	}
	if profile.Name != "x" {
		t.Fatalf("unexpected name: %q", profile.Name)
	}
}

func TestWriteServiceErrorHidesInternalDetail(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/biodatas", nil)
	rr := httptest.NewRecorder()
	writeServiceError(rr, req, errors.New("dial tcp 10.0.0.5:27017: refused"))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "10.0.0.5") {
		t.Fatalf("internal detail leaked: %s", rr.Body.String())
	}
}

func TestQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x?page=3&limit=abc", nil)
	if n, ok := queryInt(req, "page"); !ok || n != 3 {
		t.Fatalf("page: %d %v", n, ok)
	}
	if _, ok := queryInt(req, "limit"); ok {
		t.Fatalf("malformed limit must fail")
	}
	if n, ok := queryInt(req, "missing"); !ok || n != 0 {
		t.Fatalf("missing: %d %v", n, ok)
	}
}
