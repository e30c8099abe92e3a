package v1

import (
	"net/mail"
	"strings"
	"time"
)

// Role is a user's access level.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is an account profile as returned by the API.
type User struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        Role      `json:"role"`
	Phone       string    `json:"phone,omitempty"`
	DateOfBirth string    `json:"dateOfBirth,omitempty"`
	Gender      string    `json:"gender,omitempty"`
	Address     string    `json:"address,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}

// IsAdmin reports whether the user has the admin role.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// AuthResult is the payload of login and register.
type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// LoginInput is the login form.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in LoginInput) Validate() error {
	if strings.TrimSpace(in.Email) == "" {
		return invalid("email is required")
	}
	if in.Password == "" {
		return invalid("password is required")
	}
	return nil
}

// MinPasswordLength is the shortest password the forms accept.
const MinPasswordLength = 6

// RegisterInput is the registration form.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in RegisterInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return invalid("name is required")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return invalid("email is not valid")
	}
	if len(in.Password) < MinPasswordLength {
		return invalid("password must be at least 6 characters")
	}
	return nil
}

// ProfileInput updates the caller's own profile.
type ProfileInput struct {
	Name        string `json:"name,omitempty"`
	Phone       string `json:"phone,omitempty"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
	Gender      string `json:"gender,omitempty"`
	Address     string `json:"address,omitempty"`
}

func (in ProfileInput) Validate() error {
	if in.Gender != "" && in.Gender != "male" && in.Gender != "female" && in.Gender != "other" {
		return invalid("gender must be male, female or other")
	}
	if in.DateOfBirth != "" {
		if _, err := time.Parse(DateLayout, in.DateOfBirth); err != nil {
			return invalid("date of birth must be YYYY-MM-DD")
		}
	}
	return nil
}

// PasswordChange is the change-password form. Confirm never leaves the client.
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	Confirm         string `json:"-"`
}

func (in PasswordChange) Validate() error {
	if in.CurrentPassword == "" {
		return invalid("current password is required")
	}
	if in.NewPassword != in.Confirm {
		return invalid("password confirmation does not match")
	}
	if len(in.NewPassword) < MinPasswordLength {
		return invalid("new password must be at least 6 characters")
	}
	return nil
}
