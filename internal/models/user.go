package models

import "time"

// UserRole distinguishes guests from business operators
type UserRole string

const (
	UserRoleUser     UserRole = "user"
	UserRoleBusiness UserRole = "business"
)

// User represents an account that can log in or be the subject of a booking
type User struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	DisplayName  string    `json:"display_name" db:"display_name"`
	PhoneNumber  *string   `json:"phone_number,omitempty" db:"phone_number"`
	Role         UserRole  `json:"role" db:"role"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Business represents the operator profile attached to a business user
type Business struct {
	ID             string    `json:"id" db:"id"`
	UserID         string    `json:"user_id" db:"user_id"`
	BusinessName   string    `json:"business_name" db:"business_name"`
	BusinessNumber string    `json:"business_number" db:"business_number"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// RegisterRequest represents the request to register a business operator
type RegisterRequest struct {
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=8"`
	DisplayName    string `json:"display_name" binding:"required"`
	PhoneNumber    string `json:"phone_number"`
	BusinessName   string `json:"business_name" binding:"required"`
	BusinessNumber string `json:"business_number" binding:"required"`
}

// LoginRequest represents the login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginSession records a successful login with client device details
type LoginSession struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	IPAddress string    `json:"ip_address" db:"ip_address"`
	Device    string    `json:"device" db:"device"`
	Browser   string    `json:"browser" db:"browser"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
