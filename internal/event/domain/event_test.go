package domain

import "testing"

func TestEvent_Progress(t *testing.T) {
	tests := []struct {
		expected, registered int
		want                 float64
	}{
		{200, 87, 43.5},
		{50, 50, 100},
		{50, 75, 100},
		{0, 10, 0},
		{-5, 10, 0},
		{100, 0, 0},
	}
	for _, tt := range tests {
		e := &Event{ExpectedDonors: tt.expected, RegisteredDonors: tt.registered}
		if got := e.Progress(); got != tt.want {
			t.Errorf("Progress(%d/%d) = %v, want %v", tt.registered, tt.expected, got, tt.want)
		}
	}
}

func TestEvent_InCategory(t *testing.T) {
	e := &Event{Category: CategoryCamp}
	for _, c := range []string{"", "all", "ALL", "camp", " Camp "} {
		if !e.InCategory(c) {
			t.Errorf("InCategory(%q) = false", c)
		}
	}
	if e.InCategory(CategoryEmergency) {
		t.Error("InCategory(emergency) = true for a camp")
	}
}
