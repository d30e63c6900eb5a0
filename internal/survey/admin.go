package survey

import "crypto/hmac"

// DefaultAdminPassword unlocks the admin screens when no password is configured.
const DefaultAdminPassword = "Game-time1"

// AdminGate keeps attendees out of the survey manager while a session runs.
// It deters casual access only.
type AdminGate struct {
	secret []byte
}

func NewAdminGate(secret string) AdminGate {
	return AdminGate{secret: []byte(secret)}
}

// Enabled reports whether a password is required. An empty secret leaves the
// gate open.
func (g AdminGate) Enabled() bool {
	return len(g.secret) > 0
}

func (g AdminGate) Unlock(input string) bool {
	if !g.Enabled() {
		return true
	}
	return hmac.Equal([]byte(input), g.secret)
}
