package user

import "errors"

// CreateUserDTO is the admin create-user payload.
type CreateUserDTO struct {
	Username   string  `json:"username"`
	Password   string  `json:"password"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Title      string  `json:"title"`
	DOB        string  `json:"dob"`
	Phone      string  `json:"phone"`
	Department string  `json:"department"`
	Location   string  `json:"location"`
	PictureURL string  `json:"picture_url"`
	Role       string  `json:"role"`
	Manager    *string `json:"manager,omitempty"`
	ProjectID  *string `json:"project_id,omitempty"`
}

func (dto CreateUserDTO) Validate() error {
	if dto.Username == "" {
		return errors.New("username is required")
	}
	if dto.Password == "" {
		return errors.New("password is required")
	}
	if dto.Name == "" {
		return errors.New("name is required")
	}
	if dto.Email == "" {
		return errors.New("email is required")
	}
	if dto.Role != "" && !ValidRole(dto.Role) {
		return errors.New("role must be one of employee, admin, super")
	}
	return nil
}

// UpdateUserDTO mutates an existing user; zero-valued fields are left
// untouched so admins and self-service edits can send partial payloads.
type UpdateUserDTO struct {
	Username   string  `json:"username"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Title      string  `json:"title"`
	DOB        string  `json:"dob"`
	Phone      string  `json:"phone"`
	Department string  `json:"department"`
	Location   string  `json:"location"`
	PictureURL string  `json:"picture_url"`
	Role       string  `json:"role"`
	Manager    *string `json:"manager,omitempty"`
	ProjectID  *string `json:"project_id,omitempty"`
	IsActive   *bool   `json:"is_active,omitempty"`
}

func (dto UpdateUserDTO) Validate() error {
	if dto.Username == "" {
		return errors.New("username is required")
	}
	if dto.Role != "" && !ValidRole(dto.Role) {
		return errors.New("role must be one of employee, admin, super")
	}
	return nil
}
