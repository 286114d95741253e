package domain

import "testing"

func TestUser_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		user    User
		wantErr bool
	}{
		{"missing email", User{}, true},
		{"malformed email", User{Email: "nobody"}, true},
		{"valid", User{Email: "a@b.c"}, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			u := tc.user
			err := u.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() err = %v, wantErr %v", err, tc.wantErr)
			}
			if err == nil && u.Status != UserStatusActive {
				t.Errorf("Status = %q, want default active", u.Status)
			}
		})
	}
}

func TestUser_Active(t *testing.T) {
	if !(&User{}).Active() {
		t.Error("empty status should be active")
	}
	if (&User{Status: UserStatusDisabled}).Active() {
		t.Error("disabled user should not be active")
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Priya@Example.COM "); got != "priya@example.com" {
		t.Errorf("NormalizeEmail = %q", got)
	}
}
