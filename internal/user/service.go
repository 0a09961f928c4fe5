package user

import (
	"context"
	"log/slog"
	"time"

	"github.com/rakhadyo/company-portal/internal"
)

type Repository interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetAll(ctx context.Context) ([]*User, error)
	Create(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error
}

// PasswordHasher is satisfied by the auth service.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

type Service struct {
	repo   Repository
	hasher PasswordHasher
	logger *slog.Logger
}

func NewService(repo Repository, hasher PasswordHasher, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		logger: logger,
	}
}

func (s *Service) GetByUsername(ctx context.Context, username string) (*User, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if err == ErrNotFound {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// Directory returns every active user for the employee directory.
func (s *Service) Directory(ctx context.Context) ([]*User, error) {
	users, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to load directory", "error", err)
		return nil, err
	}

	active := make([]*User, 0, len(users))
	for _, u := range users {
		if u.IsActive {
			active = append(active, u)
		}
	}
	return active, nil
}

// AllUsers returns every user, inactive included, for the admin screen.
func (s *Service) AllUsers(ctx context.Context) ([]*User, error) {
	return s.repo.GetAll(ctx)
}

func (s *Service) CreateUser(ctx context.Context, dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	if existing, err := s.repo.GetByUsername(ctx, dto.Username); err == nil && existing != nil {
		return nil, internal.ErrUserExists
	}

	hash, err := s.hasher.HashPassword(dto.Password)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	role := dto.Role
	if role == "" {
		role = "employee"
	}

	now := time.Now()
	u := &User{
		Username:     dto.Username,
		Name:         dto.Name,
		Email:        dto.Email,
		Title:        dto.Title,
		DOB:          dto.DOB,
		Phone:        dto.Phone,
		Department:   dto.Department,
		Location:     dto.Location,
		PictureURL:   dto.PictureURL,
		Role:         role,
		Manager:      dto.Manager,
		ProjectID:    dto.ProjectID,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		s.logger.Error("failed to create user", "error", err, "username", dto.Username)
		return nil, err
	}

	s.logger.Info("user created", "username", u.Username, "role", u.Role)
	return u, nil
}

// UpdateUser applies a partial update. Last write wins; there is no
// version check, concurrent edits overwrite each other.
func (s *Service) UpdateUser(ctx context.Context, dto UpdateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	u, err := s.repo.GetByUsername(ctx, dto.Username)
	if err != nil {
		if err == ErrNotFound {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}

	if dto.Name != "" {
		u.Name = dto.Name
	}
	if dto.Email != "" {
		u.Email = dto.Email
	}
	if dto.Title != "" {
		u.Title = dto.Title
	}
	if dto.DOB != "" {
		u.DOB = dto.DOB
	}
	if dto.Phone != "" {
		u.Phone = dto.Phone
	}
	if dto.Department != "" {
		u.Department = dto.Department
	}
	if dto.Location != "" {
		u.Location = dto.Location
	}
	if dto.PictureURL != "" {
		u.PictureURL = dto.PictureURL
	}
	if dto.Role != "" {
		u.Role = dto.Role
	}
	if dto.Manager != nil {
		u.Manager = dto.Manager
	}
	if dto.ProjectID != nil {
		u.ProjectID = dto.ProjectID
	}
	if dto.IsActive != nil {
		u.IsActive = *dto.IsActive
	}
	u.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, u); err != nil {
		s.logger.Error("failed to update user", "error", err, "username", dto.Username)
		return nil, err
	}

	s.logger.Info("user updated", "username", u.Username)
	return u, nil
}
