package domain

import (
	"strings"
	"time"
)

// GeneratedPasswordLength is the length of the one-time password handed out at registration.
const GeneratedPasswordLength = 25

// Role is a shared reference set entry associated with accounts.
type Role struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Account models a registered blog user.
type Account struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Slug         string    `json:"slug"`
	PasswordHash string    `json:"-"`
	Bio          string    `json:"bio,omitempty"`
	Image        string    `json:"image,omitempty"`
	Roles        []Role    `json:"roles"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// RoleNames returns the names of the account roles in their stored order.
func (a *Account) RoleNames() []string {
	names := make([]string, 0, len(a.Roles))
	for _, r := range a.Roles {
		names = append(names, r.Name)
	}
	return names
}

// SlugFromEmail derives the URL-safe account slug. The mapping is lossy:
// "a.b@c.d" and "a-b@c-d" both become "a-b-c-d".
func SlugFromEmail(email string) string {
	return strings.NewReplacer("@", "-", ".", "-").Replace(email)
}
