package model

import (
	"github.com/golang-jwt/jwt/v5"
)

// JWTCustomClaims is the token payload issued by the identity provider.
// The subject (sub) is the student's UUID.
type JWTCustomClaims struct {
	Role  string `json:"role,omitempty"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}
