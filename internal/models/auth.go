package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims represents the claims carried by an admin (site owner) JWT
type TokenClaims struct {
	Type  string `json:"type"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}
