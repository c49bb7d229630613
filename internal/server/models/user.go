package models

import "time"

// Role is the access level of a user. Roles are assigned at creation and
// never change afterwards; there is no promotion flow.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleNonAdmin Role = "nonadmin"
)

type User struct {
	ID            string
	UUID          string
	UserName      string
	Email         string
	FirstName     string
	LastName      string
	PasswordHash  string
	Salt          []byte
	Role          Role
	AboutMe       string
	Country       string
	DOB           string
	ContactNumber string
	CreatedAt     time.Time
}

// Subject is the authenticated identity a session acts as; it is all the
// authorization policies ever look at.
type Subject struct {
	UUID string
	Role Role
}
