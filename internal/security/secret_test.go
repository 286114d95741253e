package security

import "testing"

func TestDigest(t *testing.T) {
	got := Digest("admin123")
	if len(got) != 64 {
		t.Fatalf("Digest length = %d, want 64", len(got))
	}
	if got != Digest("admin123") {
		t.Error("Digest should be deterministic")
	}
	if got == Digest("admin124") {
		t.Error("different input should give different digest")
	}
}

func TestSecretEqual(t *testing.T) {
	testCases := []struct {
		provided, expected string
		want               bool
	}{
		{"admin123", "admin123", true},
		{"admin12", "admin123", false},
		{"", "admin123", false},
		{"", "", true},
		{"ADMIN123", "admin123", false},
	}
	for _, tc := range testCases {
		if got := SecretEqual(tc.provided, tc.expected); got != tc.want {
			t.Errorf("SecretEqual(%q, %q) = %v, want %v", tc.provided, tc.expected, got, tc.want)
		}
	}
}
