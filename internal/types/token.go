package types

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims represents the claims in an access token
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
}

// ResetClaims are carried by the signed password reset link. Token must
// match the value stored on the user, which makes the link single use.
type ResetClaims struct {
	jwt.RegisteredClaims
	UserID uint   `json:"user_id"`
	Token  string `json:"rtk"`
}
