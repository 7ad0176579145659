package model

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserClaims are JWT claims for an authenticated company user
type UserClaims struct {
	UserID    string `json:"userId"`
	CompanyID string `json:"companyId"`
	jwt.RegisteredClaims
}

// Account is a stored company user
type Account struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	UserID       string    `json:"user_id" bson:"userId"`
	PasswordHash string    `json:"-" bson:"passwordHash"`
	CompanyID    string    `json:"company_id" bson:"companyId"`
	CreatedAt    time.Time `json:"created_at" bson:"createdAt"`
}

// SignupRequest is the request body for account creation
type SignupRequest struct {
	UserID    string `json:"user_id"`
	Password  string `json:"user_pw"`
	CompanyID string `json:"company_id"`
}

// LoginRequest is the request body for login
type LoginRequest struct {
	UserID   string `json:"user_id"`
	Password string `json:"user_pw"`
}

// LoginResponse is returned after successful login or signup
type LoginResponse struct {
	Token     string `json:"token,omitempty"`
	UserID    string `json:"user_id"`
	CompanyID string `json:"company_id"`
}
