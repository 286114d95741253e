package otp

import (
	"errors"
	"testing"

	"nss-bloodbank/backend/internal/otp/domain"
)

func TestNormalizeTarget(t *testing.T) {
	testCases := []struct {
		in          string
		want        string
		wantChannel domain.Channel
		wantErr     bool
	}{
		{"  Rahul@Example.com ", "rahul@example.com", domain.ChannelEmail, false},
		{"+91 98765 43210", "+919876543210", domain.ChannelSMS, false},
		{"9876543210", "+919876543210", domain.ChannelSMS, false},
		{"(987) 654-3210", "+919876543210", domain.ChannelSMS, false},
		{"+1 415 555 0100", "+14155550100", domain.ChannelSMS, false},
		{"", "", "", true},
		{"@example.com", "", "", true},
		{"rahul@", "", "", true},
		{"12345", "", "", true},
		{"98765abc10", "", "", true},
		{"+1234567890123456", "", "", true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, ch, err := NormalizeTarget(tc.in)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidTarget) {
					t.Fatalf("NormalizeTarget(%q) err = %v, want ErrInvalidTarget", tc.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeTarget(%q): %v", tc.in, err)
			}
			if got != tc.want || ch != tc.wantChannel {
				t.Errorf("NormalizeTarget(%q) = %q, %q; want %q, %q", tc.in, got, ch, tc.want, tc.wantChannel)
			}
		})
	}
}

func TestMaskTarget(t *testing.T) {
	testCases := map[string]string{
		"+919876543210":     "+91******3210",
		"priya@example.com": "p***@example.com",
		"123":               "****",
	}
	for in, want := range testCases {
		if got := MaskTarget(in); got != want {
			t.Errorf("MaskTarget(%q) = %q, want %q", in, got, want)
		}
	}
}
