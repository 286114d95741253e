// Package healthtips serves the static donor health guidance.
package healthtips

import (
	"net/http"
	"strings"

	"nss-bloodbank/backend/internal/platform/httpjson"
)

// Section is one category of tips.
type Section struct {
	Category string   `json:"category"`
	Slug     string   `json:"slug"`
	Tips     []string `json:"tips"`
}

var sections = []Section{
	{
		Category: "Before Donation",
		Slug:     "before-donation",
		Tips: []string{
			"Get a good night's sleep (at least 6-8 hours)",
			"Eat a healthy meal 3-4 hours before donation",
			"Drink plenty of water and stay hydrated",
			"Avoid alcohol 24 hours before donation",
			"Avoid smoking 2 hours before donation",
			"Bring valid ID and donor card if you have one",
		},
	},
	{
		Category: "During Donation",
		Slug:     "during-donation",
		Tips: []string{
			"Relax and breathe normally during the process",
			"Squeeze your hand every few seconds to help blood flow",
			"Alert staff if you feel dizzy or unwell",
			"Stay in the donation chair until staff says it's safe to get up",
			"The entire process takes about 10-15 minutes",
			"Don't look at the needle if you're squeamish",
		},
	},
	{
		Category: "After Donation",
		Slug:     "after-donation",
		Tips: []string{
			"Rest for 10-15 minutes before leaving",
			"Keep the bandage on for several hours",
			"Drink extra fluids for the next 24-48 hours",
			"Eat iron-rich foods to help replace lost iron",
			"Avoid heavy lifting with your donation arm",
			"Contact us if you experience any unusual symptoms",
		},
	},
	{
		Category: "General Health",
		Slug:     "general-health",
		Tips: []string{
			"Maintain a balanced diet rich in iron and vitamins",
			"Exercise regularly to maintain good health",
			"Get regular health check-ups",
			"Stay hydrated throughout the day",
			"Avoid smoking and excessive alcohol consumption",
			"Manage stress through relaxation techniques",
		},
	},
	{
		Category: "Eligibility",
		Slug:     "eligibility",
		Tips: []string{
			"Must be between 18-65 years old",
			"Weight should be at least 50 kg",
			"Hemoglobin level should be at least 12.5 g/dL",
			"Should not have donated blood in the last 3 months",
			"Must be free from infections and chronic diseases",
			"Blood pressure should be within normal range",
		},
	},
	{
		Category: "Warning Signs",
		Slug:     "warning-signs",
		Tips: []string{
			"Contact us if you develop flu-like symptoms within 48 hours",
			"Seek medical attention for persistent dizziness or weakness",
			"Report any signs of infection at the needle site",
			"Call if you experience severe bruising or swelling",
			"Don't donate if you feel unwell on donation day",
			"Inform staff about any medications you're taking",
		},
	},
}

// Sections returns a copy of every tip category in display order.
func Sections() []Section {
	out := make([]Section, len(sections))
	for i, s := range sections {
		s.Tips = append([]string(nil), s.Tips...)
		out[i] = s
	}
	return out
}

// Find returns the section whose slug or category equals name, ignoring case.
func Find(name string) (Section, bool) {
	name = strings.TrimSpace(name)
	for _, s := range Sections() {
		if strings.EqualFold(s.Slug, name) || strings.EqualFold(s.Category, name) {
			return s, true
		}
	}
	return Section{}, false
}

// Handler serves GET /api/health-tips and, with ?category=, a single section.
func Handler(w http.ResponseWriter, r *http.Request) {
	if c := r.URL.Query().Get("category"); c != "" {
		s, ok := Find(c)
		if !ok {
			httpjson.Error(w, http.StatusNotFound, "unknown category")
			return
		}
		httpjson.Write(w, http.StatusOK, map[string]any{"sections": []Section{s}})
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"sections": Sections()})
}
