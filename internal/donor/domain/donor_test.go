package domain

import "testing"

func TestFilter_Matches(t *testing.T) {
	d := &Donor{
		Name:       "Rahul Kumar",
		Email:      "rahul@example.com",
		Phone:      "+91 9876543210",
		BloodGroup: "O+",
		City:       "Allahabad",
		State:      "Uttar Pradesh",
	}
	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"empty", Filter{}, true},
		{"all sentinels", Filter{BloodGroup: "all", State: "All", City: "ALL"}, true},
		{"name case-insensitive", Filter{Search: "RAHUL"}, true},
		{"email substring", Filter{Search: "@example"}, true},
		{"phone substring", Filter{Search: "98765"}, true},
		{"no search match", Filter{Search: "priya"}, false},
		{"blood group", Filter{BloodGroup: "O+"}, true},
		{"other blood group", Filter{BloodGroup: "A+"}, false},
		{"state and city", Filter{State: "Uttar Pradesh", City: "allahabad"}, true},
		{"city mismatch", Filter{City: "Lucknow"}, false},
		{"conjunction fails on one", Filter{Search: "rahul", BloodGroup: "B+"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(d); got != tt.want {
				t.Errorf("Matches(%+v) = %v, want %v", tt.filter, got, tt.want)
			}
		})
	}
}

func TestValidBloodGroup(t *testing.T) {
	for _, g := range BloodGroups {
		if !ValidBloodGroup(g) {
			t.Errorf("ValidBloodGroup(%q) = false", g)
		}
	}
	if !ValidBloodGroup(" ab- ") {
		t.Error("lower-case group with spaces should be valid")
	}
	for _, g := range []string{"", "C+", "O", "AB"} {
		if ValidBloodGroup(g) {
			t.Errorf("ValidBloodGroup(%q) = true", g)
		}
	}
}
