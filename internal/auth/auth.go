package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role is the internal uppercase enum used by route guards. The backend
// stores lowercase strings (super|admin|employee); RoleFromString maps them.
type Role string

const (
	RoleEmployee Role = "EMPLOYEE"
	RoleAdmin    Role = "ADMIN"
	RoleSuper    Role = "SUPER"
)

func RoleFromString(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "super":
		return RoleSuper
	case "admin":
		return RoleAdmin
	default:
		return RoleEmployee
	}
}

func (r Role) Storage() string {
	return strings.ToLower(string(r))
}

// AtLeast reports whether the role grants everything other does.
func (r Role) AtLeast(other Role) bool {
	rank := map[Role]int{RoleEmployee: 0, RoleAdmin: 1, RoleSuper: 2}
	return rank[r] >= rank[other]
}

// SessionUser is what auth puts into the request context for downstream
// handlers: the logged-in user's identity and guard role.
type SessionUser struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
}

func (u *SessionUser) IsAdmin() bool {
	return u.Role.AtLeast(RoleAdmin)
}

func (u *SessionUser) IsSuper() bool {
	return u.Role == RoleSuper
}

type AuthTokens struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         SessionUser `json:"user"`
}

// Claims represents JWT token claims
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type ServiceAPI interface {
	Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error)
	RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error)
	Logout(ctx context.Context, refreshToken string) error
	ValidateAccessToken(tokenString string) (*Claims, error)
	SessionUserFor(ctx context.Context, username string) (*SessionUser, error)
}

type RepositoryAPI interface {
	GetCredentials(ctx context.Context, username string) (passwordHash string, role string, err error)
	GetSessionUser(ctx context.Context, username string) (*SessionUser, error)
}

type TokenGeneratorAPI interface {
	GenerateAccessToken(username string, role Role) (token string, err error)
	GenerateRefreshToken(username string, role Role) (token string, tokenID string, err error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ValidateRefreshToken(tokenString string) (*Claims, error)
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrSessionRevoked     = errors.New("session revoked")
)

type ctxKey string

const ContextUserKey ctxKey = "session_user"

func UserFromContext(ctx context.Context) (*SessionUser, bool) {
	u, ok := ctx.Value(ContextUserKey).(*SessionUser)
	return u, ok
}

func ContextWithUser(ctx context.Context, u *SessionUser) context.Context {
	return context.WithValue(ctx, ContextUserKey, u)
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}
