package model

import (
	"strings"
	"time"
)

// Account-level authorities carried in access tokens.
const (
	AuthorityUser  = "ROLE_USER"
	AuthorityAdmin = "ROLE_ADMIN"
)

type Member struct {
	ID          int        `json:"id"`
	Email       string     `json:"email"`
	Password    string     `json:"-"`
	Name        string     `json:"name"`
	Role        string     `json:"role"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewMember builds a member with the default USER authority.
func NewMember(email, hashedPassword, name string, now time.Time) *Member {
	return &Member{
		Email:     email,
		Password:  hashedPassword,
		Name:      name,
		Role:      AuthorityUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Authorities splits the stored comma-joined role column.
func (m *Member) Authorities() []string {
	var out []string
	for _, a := range strings.Split(m.Role, ",") {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}
