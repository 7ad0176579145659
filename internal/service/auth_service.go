package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"esgcheck/internal/model"
	"esgcheck/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid user id or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrAccountExists      = errors.New("user id already exists")
)

// AuthService handles company user signup, login and token validation
type AuthService struct {
	accounts  repository.AccountRepo
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(accounts repository.AccountRepo, secret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		accounts:  accounts,
		jwtSecret: []byte(secret),
		tokenTTL:  tokenTTL,
	}
}

// Signup creates an account with a bcrypt-hashed password and logs it in
func (s *AuthService) Signup(ctx context.Context, req model.SignupRequest) (*model.LoginResponse, error) {
	userID := strings.TrimSpace(req.UserID)
	companyID := strings.TrimSpace(req.CompanyID)
	if userID == "" || req.Password == "" || companyID == "" {
		return nil, &ValidationError{Field: "user_id", Message: "user_id, user_pw and company_id are required"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &model.Account{
		UserID:       userID,
		PasswordHash: string(hash),
		CompanyID:    companyID,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicateAccount) {
			return nil, ErrAccountExists
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return s.issue(account)
}

// Login validates credentials and returns a signed token
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	account, err := s.accounts.GetByUserID(ctx, strings.TrimSpace(req.UserID))
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	if account == nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(account)
}

func (s *AuthService) issue(account *model.Account) (*model.LoginResponse, error) {
	now := time.Now()
	claims := &model.UserClaims{
		UserID:    account.UserID,
		CompanyID: account.CompanyID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   account.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{
		Token:     tokenString,
		UserID:    account.UserID,
		CompanyID: account.CompanyID,
	}, nil
}

// ValidateToken validates a user JWT and returns its claims
func (s *AuthService) ValidateToken(tokenString string) (*model.UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.UserClaims)
	if !ok || !token.Valid || claims.CompanyID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
