package user

import (
	"errors"
	"time"
)

// User is an employee record. Username is the primary key; users are
// created and updated by admins but never deleted.
type User struct {
	Username     string    `json:"username" gorm:"primaryKey;column:username"`
	Name         string    `json:"name" gorm:"not null"`
	Email        string    `json:"email" gorm:"not null"`
	Title        string    `json:"title"`
	DOB          string    `json:"dob" gorm:"column:dob"`
	Phone        string    `json:"phone"`
	Department   string    `json:"department"`
	Location     string    `json:"location"`
	PictureURL   string    `json:"picture_url" gorm:"column:picture_url"`
	Role         string    `json:"role" gorm:"default:employee"`
	Manager      *string   `json:"manager,omitempty" gorm:"column:manager_username"`
	ProjectID    *string   `json:"project_id,omitempty" gorm:"column:project_id"`
	PasswordHash string    `json:"-" gorm:"column:password_hash"`
	IsActive     bool      `json:"is_active" gorm:"column:is_active;default:true"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

var roleValues = map[string]bool{"employee": true, "admin": true, "super": true}

func ValidRole(role string) bool {
	return roleValues[role]
}

var ErrNotFound = errors.New("user not found")
