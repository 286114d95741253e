package healthtips

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSections(t *testing.T) {
	var got []string
	for _, s := range Sections() {
		got = append(got, s.Category)
		if len(s.Tips) == 0 {
			t.Errorf("%s has no tips", s.Category)
		}
	}
	want := []string{"Before Donation", "During Donation", "After Donation", "General Health", "Eligibility", "Warning Signs"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("categories mismatch (-want +got):\n%s", diff)
	}

	Sections()[0].Tips[0] = "mutated"
	if Sections()[0].Tips[0] == "mutated" {
		t.Error("Sections must return copies")
	}
}

func TestHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	Handler(rec, httptest.NewRequest(http.MethodGet, "/api/health-tips?category=eligibility", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Sections []Section `json:"sections"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Sections) != 1 || body.Sections[0].Category != "Eligibility" {
		t.Errorf("sections = %+v", body.Sections)
	}

	rec = httptest.NewRecorder()
	Handler(rec, httptest.NewRequest(http.MethodGet, "/api/health-tips?category=diet", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown category status = %d, want 404", rec.Code)
	}
}
