package audit

import "testing"

func TestParseRoute(t *testing.T) {
	testCases := []struct {
		method, template string
		want             ActionResource
	}{
		{"GET", "/api/admin/dashboard", ActionResource{"get", "dashboard"}},
		{"GET", "/api/admin/audit", ActionResource{"get", "audit"}},
		{"POST", "/api/donors", ActionResource{"register", "donor"}},
		{"POST", "/api/events", ActionResource{"create", "event"}},
		{"get", "/api/donors/{id}", ActionResource{"get", "donor"}},
		{"DELETE", "/api/events/{id}", ActionResource{"delete", "event"}},
		{"GET", "/api/health-tips", ActionResource{"get", "health_tip"}},
		{"POST", "/api/auth/login", ActionResource{"login", "session"}},
		{"POST", "/api/requests", ActionResource{"create", "blood_request"}},
		{"OPTIONS", "/", ActionResource{"options", "unknown"}},
	}
	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.template, func(t *testing.T) {
			if got := ParseRoute(tc.method, tc.template); got != tc.want {
				t.Errorf("ParseRoute = %+v, want %+v", got, tc.want)
			}
		})
	}
}
