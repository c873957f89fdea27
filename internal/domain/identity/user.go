package identity

import (
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/shop/backend/internal/domain/shared"
)

// UserStatus represents the status of a user account
type UserStatus string

const (
	UserStatusActive      UserStatus = "active"
	UserStatusDeactivated UserStatus = "deactivated"
)

// Password cost for bcrypt
const bcryptCost = 12

var (
	usernamePattern = regexp.MustCompile(`^[a-z0-9_.-]{3,50}$`)
	emailPattern    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// User represents a storefront account
type User struct {
	shared.BaseAggregateRoot
	Username     string     `gorm:"type:varchar(50);not null;uniqueIndex"`
	Email        string     `gorm:"type:varchar(254);index"`
	PasswordHash string     `gorm:"type:varchar(100);not null"`
	Status       UserStatus `gorm:"type:varchar(20);not null;default:'active'"`
	LastLoginAt  *time.Time
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a new active user with a hashed password
func NewUser(username, email, password string) (*User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))

	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if email != "" {
		if err := validateEmail(email); err != nil {
			return nil, err
		}
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Username:          username,
		Email:             email,
		PasswordHash:      hash,
		Status:            UserStatusActive,
	}, nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// HasEmail returns true when the account has an email on file
func (u *User) HasEmail() bool {
	return u.Email != ""
}

// RecordLogin stamps a successful login
func (u *User) RecordLogin() {
	now := time.Now()
	u.LastLoginAt = &now
	u.UpdatedAt = now
}

// IsActive returns true when the account may log in
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// Deactivate disables the account
func (u *User) Deactivate() {
	u.Status = UserStatusDeactivated
	u.UpdatedAt = time.Now()
}

func validateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return shared.NewDomainError("INVALID_USERNAME", "Username must be 3-50 characters of lowercase letters, digits, dot, dash or underscore")
	}
	return nil
}

func validateEmail(email string) error {
	if len(email) > 254 || !emailPattern.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Email address is not valid")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("WEAK_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		// bcrypt truncates longer inputs
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
