package httpjson

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWriteAndError(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, http.StatusForbidden, "admin required")

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var body ErrorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error != "admin required" || body.Redirect != "" {
		t.Errorf("body = %+v", body)
	}
}

func TestDecode(t *testing.T) {
	type payload struct {
		Email string `json:"email"`
	}
	testCases := []struct {
		name    string
		body    string
		ct      string
		wantErr bool
	}{
		{"valid", `{"email":"a@b.c"}`, "application/json", false},
		{"no content type", `{"email":"a@b.c"}`, "", false},
		{"empty", ``, "application/json", true},
		{"unknown field", `{"email":"a@b.c","x":1}`, "application/json", true},
		{"trailing", `{"email":"a"}{"email":"b"}`, "application/json", true},
		{"form", `email=a`, "application/x-www-form-urlencoded", true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/api/x", strings.NewReader(tc.body))
			if tc.ct != "" {
				r.Header.Set("Content-Type", tc.ct)
			}
			var p payload
			err := Decode(r, &p)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Decode err = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestWantsJSON(t *testing.T) {
	testCases := []struct {
		path, accept, auth string
		want               bool
	}{
		{"/admin", "text/html,application/xhtml+xml", "", false},
		{"/admin", "application/json", "", true},
		{"/api/admin/dashboard", "", "", true},
		{"/admin", "", "Bearer x", true},
		{"/admin", "*/*", "", false},
	}
	for _, tc := range testCases {
		r := httptest.NewRequest(http.MethodGet, tc.path, nil)
		if tc.accept != "" {
			r.Header.Set("Accept", tc.accept)
		}
		if tc.auth != "" {
			r.Header.Set("Authorization", tc.auth)
		}
		if got := WantsJSON(r); got != tc.want {
			t.Errorf("WantsJSON(%s, %q, %q) = %v, want %v", tc.path, tc.accept, tc.auth, got, tc.want)
		}
	}
}
