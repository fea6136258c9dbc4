package models

import "strings"

// User is one registered company in the shared directory database.
// Rows are immutable after registration and never deleted.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	CompanyName  string `gorm:"not null" json:"company_name"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	StorePath    string `gorm:"not null" json:"-"`
}

// RegisterRequest is the registration form payload.
type RegisterRequest struct {
	CompanyName string `form:"company"`
	Email       string `form:"email"`
	Password    string `form:"password"`
}

// Normalize trims whitespace and lowercases the email.
// Emails are compared and stored case-insensitively.
func (r *RegisterRequest) Normalize() {
	r.CompanyName = strings.TrimSpace(r.CompanyName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Password = strings.TrimSpace(r.Password)
}

// LoginRequest is the login form payload.
type LoginRequest struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

// Normalize trims whitespace and lowercases the email.
func (r *LoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Password = strings.TrimSpace(r.Password)
}
