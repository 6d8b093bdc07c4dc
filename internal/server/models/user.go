package models

import "time"

// Role is the coarse authorization level stored with every user.
type Role string

const (
	RoleUser       Role = "USER"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

// User is the credential record. PasswordHash must never leave the service
// layer; handlers only ever see ID, UserName and Email.
type User struct {
	ID           string
	UserName     string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
