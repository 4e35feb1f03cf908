package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"firebase.google.com/go/v4/auth"

	"wotro-backend/internal/domain"
	"wotro-backend/internal/logger"
	"wotro-backend/internal/repository"
	"wotro-backend/internal/security"
)

// IDTokenVerifier is satisfied by *auth.Client from the Firebase Admin SDK.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

type authService struct {
	verifier     IDTokenVerifier
	userRepo     repository.UserRepository
	tokens       security.TokenManager
	revoker      TokenRevoker
	accessExpiry time.Duration
}

func NewAuthService(verifier IDTokenVerifier, userRepo repository.UserRepository, tokens security.TokenManager, revoker TokenRevoker, accessExpiry time.Duration) AuthService {
	return &authService{
		verifier:     verifier,
		userRepo:     userRepo,
		tokens:       tokens,
		revoker:      revoker,
		accessExpiry: accessExpiry,
	}
}

func (s *authService) ExchangeIDToken(ctx context.Context, idToken string) (*TokenPair, *domain.Session, error) {
	logger.EnterMethod("authService.ExchangeIDToken")

	if idToken == "" {
		return nil, nil, ErrUnauthenticated
	}
	logger.ExternalServiceCall("firebase_auth", "verify_id_token")
	tok, err := s.verifier.VerifyIDToken(ctx, idToken)
	logger.ExternalServiceResult("firebase_auth", "verify_id_token", err)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	session := &domain.Session{
		UID:         tok.UID,
		Email:       claimString(tok.Claims, "email"),
		DisplayName: claimString(tok.Claims, "name"),
		Role:        domain.UserRoleClient,
	}
	if err := s.applyProfile(ctx, session); err != nil {
		logger.ExitMethodWithError("authService.ExchangeIDToken", err)
		return nil, nil, err
	}

	pair, err := s.issue(session)
	if err != nil {
		logger.ExitMethodWithError("authService.ExchangeIDToken", err)
		return nil, nil, err
	}
	logger.ExitMethod("authService.ExchangeIDToken", "uid", session.UID, "role", session.Role)
	return pair, session, nil
}

// Refresh re-reads the profile so role changes (client becoming host) take
// effect, and rotates the refresh token.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.ValidateToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	if claims.Type != security.TokenTypeRefresh {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, security.ErrWrongTokenType)
	}
	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, fmt.Errorf("%w: token revoked", ErrUnauthenticated)
	}

	session := &domain.Session{UID: claims.UID, Email: claims.Email, Role: domain.UserRoleClient}
	if err := s.applyProfile(ctx, session); err != nil {
		return nil, err
	}
	if err := s.revoker.Revoke(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
		logger.Warn("Failed to revoke rotated refresh token", "uid", claims.UID, "error", err)
	}
	return s.issue(session)
}

func (s *authService) Logout(ctx context.Context, session *domain.Session, refreshToken string) error {
	if session == nil {
		return ErrUnauthenticated
	}
	if session.TokenID != "" {
		if err := s.revoker.Revoke(ctx, session.TokenID, s.accessExpiry); err != nil {
			return err
		}
	}
	if refreshToken == "" {
		return nil
	}
	claims, err := s.tokens.ValidateToken(refreshToken)
	if err != nil || claims.UID != session.UID {
		// An unusable refresh token is already as good as revoked.
		return nil
	}
	return s.revoker.Revoke(ctx, claims.ID, time.Until(claims.ExpiresAt.Time))
}

func (s *authService) Authenticate(ctx context.Context, accessToken string) (*domain.Session, error) {
	claims, err := s.tokens.ValidateToken(accessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	if claims.Type != security.TokenTypeAccess {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, security.ErrWrongTokenType)
	}
	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, fmt.Errorf("%w: token revoked", ErrUnauthenticated)
	}
	return &domain.Session{
		UID:         claims.UID,
		Email:       claims.Email,
		DisplayName: claims.DisplayName,
		Role:        domain.UserRole(claims.Role),
		TokenID:     claims.ID,
	}, nil
}

func (s *authService) applyProfile(ctx context.Context, session *domain.Session) error {
	user, err := s.userRepo.GetByID(ctx, session.UID)
	if errors.Is(err, repository.ErrNotFound) {
		// Not registered yet: a plain client until a profile is created.
		return nil
	}
	if err != nil {
		return err
	}
	session.Role = user.Role
	session.DisplayName = user.DisplayName(session.DisplayName)
	if user.Email != "" {
		session.Email = user.Email
	}
	return nil
}

func (s *authService) issue(session *domain.Session) (*TokenPair, error) {
	access, err := s.tokens.GenerateAccessToken(session.UID, session.Email, session.DisplayName, string(session.Role))
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.GenerateRefreshToken(session.UID, session.Email)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh, ExpiresIn: int64(s.accessExpiry / time.Second)}, nil
}

func claimString(claims map[string]interface{}, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
