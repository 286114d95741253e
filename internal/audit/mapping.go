package audit

import "strings"

// ActionResource holds action and resource derived from an HTTP route.
type ActionResource struct {
	Action   string
	Resource string
}

// Route overrides for paths whose verb alone does not describe the action.
var routeOverrides = map[string]ActionResource{
	"POST /api/auth/login":           {Action: "login", Resource: "session"},
	"POST /api/auth/logout":          {Action: "logout", Resource: "session"},
	"POST /api/auth/register":        {Action: "register", Resource: "account"},
	"POST /api/auth/register/verify": {Action: "register_verified", Resource: "account"},
	"POST /api/otp/send":             {Action: "send", Resource: "otp"},
	"POST /api/otp/verify":           {Action: "verify", Resource: "otp"},
	"POST /api/donors":               {Action: "register", Resource: "donor"},
	"POST /api/requests":             {Action: "create", Resource: "blood_request"},
	"POST /api/contact":              {Action: "create", Resource: "contact_message"},
}

// ParseRoute returns action and resource for an HTTP method and mux path template
// (e.g. "GET", "/api/admin/dashboard" -> get dashboard).
// Action is derived from the verb; resource is the last literal path segment, singularized.
func ParseRoute(method, template string) ActionResource {
	method = strings.ToUpper(method)
	if ar, ok := routeOverrides[method+" "+template]; ok {
		return ar
	}
	return ActionResource{Action: methodToAction(method), Resource: templateToResource(template)}
}

func templateToResource(template string) string {
	segments := strings.Split(strings.Trim(template, "/"), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		s := segments[i]
		if s == "" || s == "api" || strings.HasPrefix(s, "{") {
			continue
		}
		s = strings.ReplaceAll(s, "-", "_")
		if strings.HasSuffix(s, "s") && !strings.HasSuffix(s, "ss") {
			s = strings.TrimSuffix(s, "s")
		}
		return s
	}
	return "unknown"
}

func methodToAction(method string) string {
	switch method {
	case "GET", "HEAD":
		return "get"
	case "POST":
		return "create"
	case "PUT", "PATCH":
		return "update"
	case "DELETE":
		return "delete"
	default:
		return strings.ToLower(method)
	}
}
