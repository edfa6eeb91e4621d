package model

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleReader UserRole = "reader"
	UserRoleEditor UserRole = "editor"
	UserRoleAdmin  UserRole = "admin"
)

type UserStatus string

const (
	UserStatusActive  UserStatus = "active"
	UserStatusPending UserStatus = "pending"
	UserStatusBlocked UserStatus = "blocked"
)

type User struct {
	Base
	Email           string     `json:"email" db:"email"`
	Name            string     `json:"name" db:"name"`
	Password        string     `json:"password,omitempty" db:"-"`
	PasswordHash    string     `json:"-" db:"password_hash"`
	Role            UserRole   `json:"role" db:"role"`
	Status          UserStatus `json:"status" db:"status"`
	Blocked         bool       `json:"blocked" db:"blocked"`
	EmailVerified   bool       `json:"email_verified" db:"email_verified"`
	FailedLogins    int        `json:"-" db:"failed_logins"`
	LockedUntil     *time.Time `json:"-" db:"locked_until"`
	LastLoginAt     *time.Time `json:"last_login_at,omitempty" db:"last_login_at"`
	NewsletterOptIn bool       `json:"newsletter_opt_in" db:"newsletter_opt_in"`
}

// UserFilter constrains the admin user list
type UserFilter struct {
	ListFilter
	Role    string `form:"role"`
	Blocked *bool  `form:"blocked"`
}

// Subscription links a reader to a category they follow
type Subscription struct {
	UserID     uuid.UUID `json:"user_id" db:"user_id"`
	CategoryID uuid.UUID `json:"category_id" db:"category_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required,min=2,max=120"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"omitempty,oneof=reader editor admin"`
}

type UpdateUserRequest struct {
	Email           *string `json:"email" binding:"omitempty,email"`
	Name            *string `json:"name" binding:"omitempty,min=2,max=120"`
	Role            *string `json:"role" binding:"omitempty,oneof=reader editor admin"`
	NewsletterOptIn *bool   `json:"newsletter_opt_in"`
}
