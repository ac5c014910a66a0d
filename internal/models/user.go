package models

import (
	"strings"
	"time"
)

// Role is the normalized user role.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

// User is a team member normalized from the backend wire shape.
type User struct {
	ID          int64
	Username    string
	Email       string
	FullName    string
	Role        Role
	CreatedAt   time.Time
	Active      bool
	AvatarColor string
}

// Initials returns up to two uppercase initials for avatar rendering.
func (u User) Initials() string {
	var initials []rune
	for _, part := range strings.Fields(u.FullName) {
		initials = append(initials, []rune(part)[0])
		if len(initials) == 2 {
			break
		}
	}
	return strings.ToUpper(string(initials))
}
