package otp

import (
	"errors"
	"strings"
	"unicode"

	"nss-bloodbank/backend/internal/otp/domain"
)

// ErrInvalidTarget is returned for targets that are neither an email address nor a phone number.
var ErrInvalidTarget = errors.New("otp: target must be an email address or phone number")

// DefaultCountryCode is prefixed to ten-digit national numbers.
const DefaultCountryCode = "91"

// NormalizeTarget canonicalizes a raw target. Emails are trimmed and lower-cased; phone numbers
// keep only their digits behind a leading "+". Returns the channel the code will travel on.
func NormalizeTarget(raw string) (string, domain.Channel, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", "", ErrInvalidTarget
	}
	if at := strings.LastIndexByte(s, '@'); at >= 0 {
		if at == 0 || at == len(s)-1 || strings.ContainsAny(s, " \t") {
			return "", "", ErrInvalidTarget
		}
		return strings.ToLower(s), domain.ChannelEmail, nil
	}

	var digits strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			digits.WriteRune(r)
		case r == '+' || r == ' ' || r == '-' || r == '(' || r == ')' || r == '.':
		default:
			return "", "", ErrInvalidTarget
		}
	}
	d := digits.String()
	if len(d) == 10 && !strings.HasPrefix(s, "+") {
		d = DefaultCountryCode + d
	}
	if len(d) < 10 || len(d) > 15 {
		return "", "", ErrInvalidTarget
	}
	return "+" + d, domain.ChannelSMS, nil
}

// MaskTarget hides most of a target for logs: "+91******3210", "p***@example.com".
func MaskTarget(target string) string {
	if at := strings.IndexByte(target, '@'); at > 0 {
		return target[:1] + "***" + target[at:]
	}
	if len(target) <= 4 {
		return "****"
	}
	keep := 3
	if !strings.HasPrefix(target, "+") {
		keep = 0
	}
	return target[:keep] + strings.Repeat("*", len(target)-keep-4) + target[len(target)-4:]
}
