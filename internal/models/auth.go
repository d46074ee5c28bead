package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role represents the caller's role for RBAC.
type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleAdmin   Role = "ADMIN"
)

// Account stores login credentials. Student accounts are linked by ERP.
type Account struct {
	AccountID    int64     `db:"account_id" json:"account_id"`
	ERP          *int64    `db:"erp" json:"erp,omitempty"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         Role      `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// LoginRequest holds credentials for authenticating an account.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued token.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	ERP         *int64    `json:"erp,omitempty"`
	Role        Role      `json:"role"`
	IssuedAt    time.Time `json:"issued_at"`
}

// JWTClaims is the access token payload.
type JWTClaims struct {
	ERP   int64  `json:"erp,omitempty"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the caller bypasses ownership checks.
func (c *JWTClaims) IsAdmin() bool {
	return c != nil && c.Role == RoleAdmin
}
