package models

import "github.com/golang-jwt/jwt/v5"

// TokenClaims are the JWT claims carried by both access and refresh tokens.
// Type distinguishes the two so a refresh token cannot be replayed as an
// access token.
type TokenClaims struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}
