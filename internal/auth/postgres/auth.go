package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rakhadyo/company-portal/internal/auth"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetCredentials(ctx context.Context, username string) (string, string, error) {
	var passwordHash string
	var role string
	query := `SELECT password_hash, role FROM users WHERE username = ? AND is_active = true`

	row := r.db.WithContext(ctx).Raw(query, username).Row()
	if err := row.Scan(&passwordHash, &role); err != nil {
		if err == sql.ErrNoRows {
			return "", "", fmt.Errorf("user not found")
		}
		return "", "", err
	}
	return passwordHash, role, nil
}

func (r *Repository) GetSessionUser(ctx context.Context, username string) (*auth.SessionUser, error) {
	var name string
	var role string
	query := `SELECT name, role FROM users WHERE username = ? AND is_active = true`

	row := r.db.WithContext(ctx).Raw(query, username).Row()
	if err := row.Scan(&name, &role); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user not found")
		}
		return nil, err
	}

	return &auth.SessionUser{
		Username: username,
		Name:     name,
		Role:     auth.RoleFromString(role),
	}, nil
}
