package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/sercha-hub/internal/core/domain"
	"github.com/custodia-labs/sercha-hub/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-hub/internal/core/ports/driving"
)

// Ensure authService implements AuthService
var _ driving.AuthService = (*authService)(nil)

// DefaultTokenTTL is used when NewAuthService is given a non-positive TTL
const DefaultTokenTTL = 24 * time.Hour

// authService implements the AuthService interface.
// It only establishes who the caller is; search authorization happens per request.
type authService struct {
	people       driven.PersonDirectory
	sessionStore driven.SessionStore
	authAdapter  driven.AuthAdapter
	tokenTTL     time.Duration
}

// NewAuthService creates a new AuthService
func NewAuthService(
	people driven.PersonDirectory,
	sessionStore driven.SessionStore,
	authAdapter driven.AuthAdapter,
	tokenTTL time.Duration,
) driving.AuthService {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &authService{
		people:       people,
		sessionStore: sessionStore,
		authAdapter:  authAdapter,
		tokenTTL:     tokenTTL,
	}
}

// Authenticate validates credentials and creates a session
func (s *authService) Authenticate(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, domain.ErrInvalidInput
	}

	user, err := s.people.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.Active {
		return nil, domain.ErrUnauthorized
	}
	if !s.authAdapter.VerifyPassword(req.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	resp, err := s.issue(ctx, user)
	if err != nil {
		return nil, err
	}

	_ = s.people.UpdateLastLogin(ctx, user.ID)
	return resp, nil
}

// ValidateToken validates a JWT token and returns the auth context
func (s *authService) ValidateToken(ctx context.Context, token string) (*domain.AuthContext, error) {
	if token == "" {
		return nil, domain.ErrTokenInvalid
	}

	claims, err := s.authAdapter.ParseToken(token)
	if errors.Is(err, domain.ErrTokenExpired) {
		return nil, domain.ErrTokenExpired
	}
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}
	if time.Now().Unix() > claims.ExpiresAt {
		return nil, domain.ErrTokenExpired
	}

	// Logout deletes the session, which revokes tokens that are otherwise still valid
	session, err := s.sessionStore.Get(ctx, claims.SessionID)
	if err != nil {
		return nil, domain.ErrSessionNotFound
	}
	if session.IsExpired() {
		return nil, domain.ErrTokenExpired
	}

	return &domain.AuthContext{
		UserID:    claims.UserID,
		Email:     claims.Email,
		Name:      claims.Name,
		Role:      claims.Role,
		SessionID: claims.SessionID,
	}, nil
}

// RefreshToken rotates a session: the old one is deleted, a new one issued
func (s *authService) RefreshToken(ctx context.Context, req domain.RefreshRequest) (*domain.LoginResponse, error) {
	if req.RefreshToken == "" {
		return nil, domain.ErrTokenInvalid
	}

	session, err := s.sessionStore.GetByRefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}
	if session.IsExpired() {
		return nil, domain.ErrTokenExpired
	}

	user, err := s.people.Get(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if !user.Active {
		return nil, domain.ErrUnauthorized
	}

	_ = s.sessionStore.Delete(ctx, session.ID)
	return s.issue(ctx, user)
}

// Logout invalidates a session
func (s *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	claims, err := s.authAdapter.ParseToken(token)
	if err != nil {
		return nil // Already invalid, nothing to do
	}

	return s.sessionStore.Delete(ctx, claims.SessionID)
}

// LogoutAll invalidates all sessions for a user
func (s *authService) LogoutAll(ctx context.Context, userID string) error {
	return s.sessionStore.DeleteByUser(ctx, userID)
}

func (s *authService) issue(ctx context.Context, user *domain.User) (*domain.LoginResponse, error) {
	now := time.Now()
	expiresAt := now.Add(s.tokenTTL)
	sessionID := uuid.NewString()

	token, err := s.authAdapter.GenerateToken(&domain.TokenClaims{
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		SessionID: sessionID,
		IssuedAt:  now.Unix(),
		ExpiresAt: expiresAt.Unix(),
	})
	if err != nil {
		return nil, err
	}

	refreshToken := generateRefreshToken()
	session := &domain.Session{
		ID:           sessionID,
		UserID:       user.ID,
		Token:        token,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		CreatedAt:    now,
	}
	if err := s.sessionStore.Save(ctx, session); err != nil {
		return nil, err
	}

	return &domain.LoginResponse{
		Token:        token,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		User:         user.ToSummary(),
	}, nil
}

func generateRefreshToken() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
