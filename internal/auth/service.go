package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// SessionCache tracks live refresh sessions so logout can revoke them.
// Implementations may degrade to a no-op when the backing store is down.
type SessionCache interface {
	Store(ctx context.Context, tokenID, username string, ttl time.Duration) error
	Exists(ctx context.Context, tokenID string) (bool, error)
	Revoke(ctx context.Context, tokenID string) error
}

type Service struct {
	repo       RepositoryAPI
	tokenGen   TokenGeneratorAPI
	sessions   SessionCache
	logger     *slog.Logger
	bcryptCost int
	refreshTTL time.Duration
}

func NewService(repo RepositoryAPI, tokenGen TokenGeneratorAPI, sessions SessionCache, refreshTTL time.Duration, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		tokenGen:   tokenGen,
		sessions:   sessions,
		logger:     logger,
		bcryptCost: bcrypt.DefaultCost,
		refreshTTL: refreshTTL,
	}
}

func NewJWTTokenGenerator(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTTokenGenerator {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 24 * 7 * time.Hour
	}
	return &JWTTokenGenerator{
		AccessTokenSecret:  []byte(accessSecret),
		RefreshTokenSecret: []byte(refreshSecret),
		AccessTokenTTL:     accessTTL,
		RefreshTokenTTL:    refreshTTL,
	}
}

// Authenticate validates credentials and returns tokens plus the session
// user the client caches. Any credential failure collapses to
// ErrInvalidCredentials so callers cannot probe for usernames.
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	storedHash, roleStr, err := s.repo.GetCredentials(ctx, dto.Username)
	if err != nil {
		return AuthTokens{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(dto.Password)); err != nil {
		return AuthTokens{}, ErrInvalidCredentials
	}

	user, err := s.repo.GetSessionUser(ctx, dto.Username)
	if err != nil {
		return AuthTokens{}, ErrInvalidCredentials
	}
	user.Role = RoleFromString(roleStr)

	return s.issueTokens(ctx, user)
}

// RefreshTokens validates the refresh token, checks the session is still
// live, and rotates both tokens.
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGen.ValidateRefreshToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	if claims.ID != "" {
		live, cerr := s.sessions.Exists(ctx, claims.ID)
		if cerr != nil {
			s.logger.Warn("session cache unavailable, skipping revocation check", "error", cerr)
		} else if !live {
			return AuthTokens{}, ErrSessionRevoked
		}
		if err := s.sessions.Revoke(ctx, claims.ID); err != nil {
			s.logger.Warn("failed to revoke rotated session", "error", err)
		}
	}

	user, err := s.repo.GetSessionUser(ctx, claims.Username)
	if err != nil {
		return AuthTokens{}, ErrInvalidToken
	}

	return s.issueTokens(ctx, user)
}

// Logout revokes the refresh session. A valid token always logs out
// cleanly even when the cache is down; revocation then degrades.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.tokenGen.ValidateRefreshToken(refreshToken)
	if err != nil {
		return err
	}
	if claims.ID == "" {
		return nil
	}
	if err := s.sessions.Revoke(ctx, claims.ID); err != nil {
		s.logger.Warn("logout: session revocation degraded", "error", err)
	}
	return nil
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGen.ValidateAccessToken(tokenString)
}

func (s *Service) SessionUserFor(ctx context.Context, username string) (*SessionUser, error) {
	return s.repo.GetSessionUser(ctx, username)
}

func (s *Service) issueTokens(ctx context.Context, user *SessionUser) (AuthTokens, error) {
	accessToken, err := s.tokenGen.GenerateAccessToken(user.Username, user.Role)
	if err != nil {
		return AuthTokens{}, err
	}

	refreshToken, tokenID, err := s.tokenGen.GenerateRefreshToken(user.Username, user.Role)
	if err != nil {
		return AuthTokens{}, err
	}

	if err := s.sessions.Store(ctx, tokenID, user.Username, s.refreshTTL); err != nil {
		s.logger.Warn("failed to cache refresh session", "error", err, "username", user.Username)
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         *user,
	}, nil
}

// HashPassword creates a bcrypt hash of the password
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (j *JWTTokenGenerator) GenerateAccessToken(username string, role Role) (string, error) {
	expiresAt := time.Now().Add(j.AccessTokenTTL)

	claims := &Claims{
		Username: username,
		Role:     string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   username,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.AccessTokenSecret)
}

func (j *JWTTokenGenerator) GenerateRefreshToken(username string, role Role) (string, string, error) {
	expiresAt := time.Now().Add(j.RefreshTokenTTL)
	tokenID := uuid.NewString()

	claims := &Claims{
		Username: username,
		Role:     string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   username,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.RefreshTokenSecret)
	if err != nil {
		return "", "", err
	}
	return signed, tokenID, nil
}

func (j *JWTTokenGenerator) ValidateAccessToken(tokenString string) (*Claims, error) {
	return j.validate(tokenString, j.AccessTokenSecret)
}

func (j *JWTTokenGenerator) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return j.validate(tokenString, j.RefreshTokenSecret)
}

func (j *JWTTokenGenerator) validate(tokenString string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}
