package otp

import "testing"

func TestGenerateCode_SixDigits(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := GenerateCode()
		if err != nil {
			t.Fatalf("GenerateCode: %v", err)
		}
		if len(code) != CodeDigits {
			t.Fatalf("code %q length = %d, want %d", code, len(code), CodeDigits)
		}
		for _, c := range code {
			if c < '0' || c > '9' {
				t.Fatalf("code %q contains non-digit %q", code, c)
			}
		}
	}
}

func TestGenerateCode_Varies(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, _ := GenerateCode()
		seen[code] = true
	}
	if len(seen) < 45 {
		t.Errorf("only %d distinct codes out of 50", len(seen))
	}
}

func TestHashCode(t *testing.T) {
	h := HashCode("123456")
	if len(h) != 64 {
		t.Errorf("hash length = %d, want 64", len(h))
	}
	if h != HashCode("123456") {
		t.Error("HashCode not deterministic")
	}
	if h == HashCode("654321") {
		t.Error("different codes hashed equal")
	}
}

func TestCodeEqual(t *testing.T) {
	stored := HashCode("123456")
	testCases := []struct {
		candidate string
		want      bool
	}{
		{"123456", true},
		{"123457", false},
		{"", false},
		{"1234567", false},
	}
	for _, tc := range testCases {
		if got := CodeEqual(tc.candidate, stored); got != tc.want {
			t.Errorf("CodeEqual(%q) = %v, want %v", tc.candidate, got, tc.want)
		}
	}
}
