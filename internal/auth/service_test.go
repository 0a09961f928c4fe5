package auth

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

func TestAuth(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Auth Module Suite")
}

// Mock repository for testing
type mockAuthRepository struct {
	hashes        map[string]string // username -> password hash
	roles         map[string]string // username -> role
	users         map[string]*SessionUser
	returnError   bool
	errorToReturn error
}

func newMockAuthRepository() *mockAuthRepository {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("correct_password"), bcrypt.DefaultCost)

	return &mockAuthRepository{
		hashes: map[string]string{
			"emma": string(hashedPassword),
			"andi": string(hashedPassword),
		},
		roles: map[string]string{
			"emma": "employee",
			"andi": "admin",
		},
		users: map[string]*SessionUser{
			"emma": {Username: "emma", Name: "Emma Employee", Role: RoleEmployee},
			"andi": {Username: "andi", Name: "Andi Admin", Role: RoleAdmin},
		},
	}
}

func (m *mockAuthRepository) GetCredentials(ctx context.Context, username string) (string, string, error) {
	if m.returnError {
		return "", "", m.errorToReturn
	}
	if hash, exists := m.hashes[username]; exists {
		return hash, m.roles[username], nil
	}
	return "", "", errors.New("user not found")
}

func (m *mockAuthRepository) GetSessionUser(ctx context.Context, username string) (*SessionUser, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	if u, exists := m.users[username]; exists {
		copied := *u
		return &copied, nil
	}
	return nil, errors.New("user not found")
}

// Mock session cache for testing
type mockSessionCache struct {
	sessions    map[string]string
	unavailable bool
}

func newMockSessionCache() *mockSessionCache {
	return &mockSessionCache{sessions: map[string]string{}}
}

func (m *mockSessionCache) Store(ctx context.Context, tokenID, username string, ttl time.Duration) error {
	if m.unavailable {
		return errors.New("cache unavailable")
	}
	m.sessions[tokenID] = username
	return nil
}

func (m *mockSessionCache) Exists(ctx context.Context, tokenID string) (bool, error) {
	if m.unavailable {
		return false, errors.New("cache unavailable")
	}
	_, ok := m.sessions[tokenID]
	return ok, nil
}

func (m *mockSessionCache) Revoke(ctx context.Context, tokenID string) error {
	if m.unavailable {
		return errors.New("cache unavailable")
	}
	delete(m.sessions, tokenID)
	return nil
}

var _ = ginkgo.Describe("AuthService", func() {
	var (
		service  *Service
		mockRepo *mockAuthRepository
		sessions *mockSessionCache
		tokenGen *JWTTokenGenerator
		ctx      context.Context

		accessSecret  = "test-access-secret-test-access-secret"
		refreshSecret = "test-refresh-secret-test-refresh-secret"
		accessTTL     = 15 * time.Minute
		refreshTTL    = 24 * time.Hour
	)

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		mockRepo = newMockAuthRepository()
		sessions = newMockSessionCache()
		tokenGen = NewJWTTokenGenerator(accessSecret, refreshSecret, accessTTL, refreshTTL)
		service = NewService(mockRepo, tokenGen, sessions, refreshTTL, slog.Default())
	})

	ginkgo.Describe("Authenticate", func() {
		ginkgo.Context("when credentials are valid", func() {
			ginkgo.It("should return access and refresh tokens", func() {
				dto := LoginDTO{Username: "emma", Password: "correct_password"}

				tokens, err := service.Authenticate(ctx, dto)

				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(tokens.AccessToken).ToNot(gomega.BeEmpty())
				gomega.Expect(tokens.RefreshToken).ToNot(gomega.BeEmpty())
				gomega.Expect(tokens.AccessToken).ToNot(gomega.Equal(tokens.RefreshToken))
			})

			ginkgo.It("should return the session user with an uppercase role", func() {
				dto := LoginDTO{Username: "andi", Password: "correct_password"}

				tokens, err := service.Authenticate(ctx, dto)

				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(tokens.User.Username).To(gomega.Equal("andi"))
				gomega.Expect(tokens.User.Role).To(gomega.Equal(RoleAdmin))
			})

			ginkgo.It("should generate a valid access token", func() {
				dto := LoginDTO{Username: "andi", Password: "correct_password"}

				tokens, err := service.Authenticate(ctx, dto)

				gomega.Expect(err).ToNot(gomega.HaveOccurred())

				claims, err := service.ValidateAccessToken(tokens.AccessToken)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(claims.Username).To(gomega.Equal("andi"))
				gomega.Expect(claims.Role).To(gomega.Equal(RoleAdmin))
			})

			ginkgo.It("should store the refresh session in the cache", func() {
				dto := LoginDTO{Username: "emma", Password: "correct_password"}

				_, err := service.Authenticate(ctx, dto)

				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(sessions.sessions).To(gomega.HaveLen(1))
			})
		})

		ginkgo.Context("when credentials are invalid", func() {
			ginkgo.It("should return error for unknown username", func() {
				dto := LoginDTO{Username: "nobody", Password: "any_password"}

				tokens, err := service.Authenticate(ctx, dto)

				gomega.Expect(err).To(gomega.Equal(ErrInvalidCredentials))
				gomega.Expect(tokens.AccessToken).To(gomega.BeEmpty())
			})

			ginkgo.It("should return the same error for a wrong password", func() {
				dto := LoginDTO{Username: "emma", Password: "wrong_password"}

				tokens, err := service.Authenticate(ctx, dto)

				gomega.Expect(err).To(gomega.Equal(ErrInvalidCredentials))
				gomega.Expect(tokens.AccessToken).To(gomega.BeEmpty())
			})
		})

		ginkgo.Context("when input validation fails", func() {
			ginkgo.It("should return validation error for empty username", func() {
				dto := LoginDTO{Username: "", Password: "password"}

				_, err := service.Authenticate(ctx, dto)

				gomega.Expect(err).To(gomega.HaveOccurred())
				gomega.Expect(err.Error()).To(gomega.ContainSubstring("username is required"))
			})

			ginkgo.It("should return validation error for empty password", func() {
				dto := LoginDTO{Username: "emma", Password: ""}

				_, err := service.Authenticate(ctx, dto)

				gomega.Expect(err).To(gomega.HaveOccurred())
				gomega.Expect(err.Error()).To(gomega.ContainSubstring("password is required"))
			})
		})
	})

	ginkgo.Describe("RefreshTokens", func() {
		ginkgo.It("should rotate tokens for a live session", func() {
			tokens, err := service.Authenticate(ctx, LoginDTO{Username: "emma", Password: "correct_password"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			rotated, err := service.RefreshTokens(ctx, tokens.RefreshToken)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(rotated.AccessToken).ToNot(gomega.BeEmpty())
			gomega.Expect(rotated.User.Username).To(gomega.Equal("emma"))
		})

		ginkgo.It("should reject a revoked session", func() {
			tokens, err := service.Authenticate(ctx, LoginDTO{Username: "emma", Password: "correct_password"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Expect(service.Logout(ctx, tokens.RefreshToken)).To(gomega.Succeed())

			_, err = service.RefreshTokens(ctx, tokens.RefreshToken)
			gomega.Expect(err).To(gomega.Equal(ErrSessionRevoked))
		})

		ginkgo.It("should reject garbage tokens", func() {
			_, err := service.RefreshTokens(ctx, "not-a-jwt")

			gomega.Expect(err).To(gomega.HaveOccurred())
		})

		ginkgo.It("should still rotate when the cache is unavailable", func() {
			tokens, err := service.Authenticate(ctx, LoginDTO{Username: "emma", Password: "correct_password"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			sessions.unavailable = true

			rotated, err := service.RefreshTokens(ctx, tokens.RefreshToken)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(rotated.AccessToken).ToNot(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("Role", func() {
		ginkgo.It("should map storage roles onto the internal enum", func() {
			gomega.Expect(RoleFromString("super")).To(gomega.Equal(RoleSuper))
			gomega.Expect(RoleFromString("admin")).To(gomega.Equal(RoleAdmin))
			gomega.Expect(RoleFromString("employee")).To(gomega.Equal(RoleEmployee))
			gomega.Expect(RoleFromString("weird")).To(gomega.Equal(RoleEmployee))
		})

		ginkgo.It("should rank roles for guards", func() {
			gomega.Expect(RoleSuper.AtLeast(RoleAdmin)).To(gomega.BeTrue())
			gomega.Expect(RoleAdmin.AtLeast(RoleAdmin)).To(gomega.BeTrue())
			gomega.Expect(RoleEmployee.AtLeast(RoleAdmin)).To(gomega.BeFalse())
		})
	})
})
