package model

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// User is a registered account. The engine only ever sees the identity
// id from the token; credentials stay in the auth service.
type User struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Username     string    `json:"username" bson:"username"`
	PasswordHash []byte    `json:"-" bson:"password_hash"`
	Avatar       string    `json:"avatar" bson:"avatar"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// IdentityClaims are the JWT claims presented with every request.
type IdentityClaims struct {
	IdentityID string `json:"identity_id"`
	Username   string `json:"username"`
	jwt.RegisteredClaims
}

// RegisterRequest is the request body for account registration.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Avatar   string `json:"avatar,omitempty"`
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned after successful registration or login.
type LoginResponse struct {
	Token      string `json:"token"`
	IdentityID string `json:"identity_id"`
	Username   string `json:"username"`
}
