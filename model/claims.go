package model

import "github.com/golang-jwt/jwt/v5"

// AppClaims is the signed payload of both access and refresh tokens.
// Authorities is nil for refresh tokens.
type AppClaims struct {
	Authorities *string `json:"auth,omitempty"`
	Refresh     bool    `json:"refresh,omitempty"`
	jwt.RegisteredClaims
}

// Identity is the authenticated caller attached to a request.
type Identity struct {
	Email       string   `json:"email"`
	Authorities []string `json:"authorities"`
}
