package domain

import (
	"time"

	"gorm.io/gorm"
)

// Roles a user can hold. "broken" is someone seeking support,
// "counselor" is someone offering it.
const (
	RoleBroken    = "broken"
	RoleCounselor = "counselor"
	RoleAdmin     = "admin"
)

// ValidRole reports whether role is one of the fixed role set.
func ValidRole(role string) bool {
	switch role {
	case RoleBroken, RoleCounselor, RoleAdmin:
		return true
	}
	return false
}

// User is an authenticated platform member.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string
	Banned       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserModel is the GORM model for the users table.
type UserModel struct {
	ID           string         `gorm:"type:varchar(36);primaryKey"`
	Name         string         `gorm:"type:varchar(100);not null"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string         `gorm:"type:varchar(255);not null"`
	Role         string         `gorm:"type:varchar(20);index;not null"`
	Banned       bool           `gorm:"default:false"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for UserModel.
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts UserModel to domain User.
func (m *UserModel) ToDomain() *User {
	return &User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         m.Role,
		Banned:       m.Banned,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// UserToModel converts domain User to UserModel.
func UserToModel(u *User) *UserModel {
	return &UserModel{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		Banned:       u.Banned,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role"`
	Banned bool   `json:"banned,omitempty"`
}

// ToResponse strips credentials from a user.
func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   u.Role,
		Banned: u.Banned,
	}
}

// RegisterRequest is the payload for POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required"`
}

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest is the payload for PUT /users/me.
type UpdateProfileRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// AuthResponse is returned on successful register/login.
type AuthResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}
