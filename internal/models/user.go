package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	AdminRole    = "admin"
	EmployeeRole = "employee"
)

// User lifecycle is a single tagged state instead of scattered boolean flags.
const (
	UserActive      = "active"
	UserDeactivated = "inactive"
	UserDeleted     = "deleted"
)

type User struct {
	ID            uuid.UUID  `json:"id"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	Username      string     `json:"user_name"`
	Email         string     `json:"email"`
	PhoneNumber   string     `json:"phone_number"`
	Role          string     `json:"role"`
	Password      string     `json:"-"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	DeactivatedAt *time.Time `json:"deactivated_at,omitempty"`
}

func (u *User) IsActive() bool {
	return u.Status == UserActive
}
