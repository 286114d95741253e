package domain

import "time"

// Channel is how a code reaches its target.
type Channel string

const (
	ChannelSMS   Channel = "sms"
	ChannelEmail Channel = "email"
)

// Challenge is the single outstanding code for a target. Issuing a new code replaces it.
type Challenge struct {
	ID        string
	Target    string // normalized phone (+digits) or lower-cased email
	Channel   Channel
	CodeHash  string
	Attempts  int
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the challenge can no longer be verified at now.
func (c *Challenge) Expired(now time.Time) bool {
	return !c.ExpiresAt.After(now)
}
