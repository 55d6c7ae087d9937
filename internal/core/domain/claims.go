package domain

import "time"

// Claims is the decoded content of a validated session token.
// Roles are a snapshot taken at issuance and may be stale.
type Claims struct {
	TokenID   string
	Subject   string
	Email     string
	Roles     []string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

