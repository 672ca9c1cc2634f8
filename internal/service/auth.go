// Package service implements the application's business logic on top of the
// store, keeping HTTP concerns out and returning domain errors for handlers
// to map to status codes.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/millukiapp/milluki-server/internal/auth"
	"github.com/millukiapp/milluki-server/internal/domain"
	domainerrors "github.com/millukiapp/milluki-server/internal/errors"
	"github.com/millukiapp/milluki-server/internal/id"
	"github.com/millukiapp/milluki-server/internal/store"
	"github.com/millukiapp/milluki-server/internal/validation"
)

// validate is the shared request validator for all services.
var validate = validation.New()

// AuthService handles user registration, login, and token verification.
type AuthService struct {
	store        *store.Store
	tokenService *auth.TokenService
	logger       *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(store *store.Store, tokenService *auth.TokenService, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:        store,
		tokenService: tokenService,
		logger:       logger,
	}
}

// RegisterRequest contains user registration data.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email,min=6,max=255"`
	Password string `json:"password" validate:"required,min=6,max=255"`
}

// LoginRequest contains user credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,min=6,max=255"`
	Password string `json:"password" validate:"required,min=6,max=255"`
}

// AuthResponse contains the authenticated user and a fresh access token.
type AuthResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"-"` // Delivered via the x-auth-token header
}

// Register creates a new user account and signs them in.
//
// A second registration with the same email (case-insensitive) fails with
// a conflict. The returned user has its password hash cleared.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID, err := id.Generate("user")
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	user := &domain.User{
		ID:           userID,
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
	}
	user.InitTimestamps()

	if err := s.store.Users.Create(ctx, userID, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("email already registered")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokenService.IssueToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("User registered", "user_id", userID, "email", user.Email)
	}

	return &AuthResponse{User: sanitizeUser(user), Token: token}, nil
}

// Login verifies credentials and returns a fresh token.
//
// Unknown email and wrong password produce the same error so callers
// cannot probe which addresses are registered.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.Users.GetByIndex(ctx, "email", req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.InvalidCredentials("invalid email or password")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	valid, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return nil, domainerrors.InvalidCredentials("invalid email or password")
	}

	token, err := s.tokenService.IssueToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("User logged in", "user_id", user.ID)
	}

	return &AuthResponse{User: sanitizeUser(user), Token: token}, nil
}

// VerifyToken validates a token string and returns its claims.
// Used by the authentication middleware.
func (s *AuthService) VerifyToken(tokenString string) (*auth.IdentityClaims, error) {
	claims, err := s.tokenService.VerifyToken(tokenString)
	if err != nil {
		return nil, domainerrors.BadCredential("token is not valid").WithCause(err)
	}
	return claims, nil
}

// GetUser returns the user for an identity ID, without the password hash.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.Users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return sanitizeUser(user), nil
}

// sanitizeUser returns a copy of the user with the password hash cleared.
func sanitizeUser(u *domain.User) *domain.User {
	clean := *u
	clean.PasswordHash = ""
	return &clean
}
