package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is what a user may do on the marketplace.
type Role string

const (
	RoleClient     Role = "client"
	RoleSalesAgent Role = "sales_agent"
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	return r == RoleClient || r == RoleSalesAgent
}

// ParseRole accepts the wire names case-insensitively and defaults to client
// for an empty string.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(RoleClient):
		return RoleClient, nil
	case string(RoleSalesAgent), "salesagent":
		return RoleSalesAgent, nil
	}
	return "", invalid("role", "must be client or sales_agent")
}

// User is an authenticated account.
type User struct {
	id           string
	email        string
	firstName    string
	lastName     string
	role         Role
	passwordHash string
	createdAt    time.Time
	updatedAt    *time.Time
}

// UserSnapshot is the persisted shape of a User.
type UserSnapshot struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	Role         Role       `json:"role"`
	PasswordHash string     `json:"-"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
}

// NewUser validates the profile and assigns a fresh UUID. The password hash
// is produced by the caller.
func NewUser(email, firstName, lastName string, role Role, passwordHash string, now time.Time) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email, 0); err != nil {
		return nil, err
	}
	if err := validateName("firstName", firstName); err != nil {
		return nil, err
	}
	if err := validateName("lastName", lastName); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, invalid("role", "must be client or sales_agent")
	}
	return &User{
		id:           uuid.NewString(),
		email:        email,
		firstName:    firstName,
		lastName:     lastName,
		role:         role,
		passwordHash: passwordHash,
		createdAt:    now.UTC(),
	}, nil
}

// RestoreUser rehydrates a persisted user.
func RestoreUser(s UserSnapshot) *User {
	return &User{
		id:           s.ID,
		email:        s.Email,
		firstName:    s.FirstName,
		lastName:     s.LastName,
		role:         s.Role,
		passwordHash: s.PasswordHash,
		createdAt:    s.CreatedAt,
		updatedAt:    s.UpdatedAt,
	}
}

// Snapshot returns the user's persisted shape.
func (u *User) Snapshot() UserSnapshot {
	return UserSnapshot{
		ID:           u.id,
		Email:        u.email,
		FirstName:    u.firstName,
		LastName:     u.lastName,
		Role:         u.role,
		PasswordHash: u.passwordHash,
		CreatedAt:    u.createdAt,
		UpdatedAt:    u.updatedAt,
	}
}

// Accessors.
func (u *User) ID() string           { return u.id }
func (u *User) Email() string        { return u.email }
func (u *User) Role() Role           { return u.role }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) FullName() string     { return u.firstName + " " + u.lastName }

// UpdateProfile renames the user.
func (u *User) UpdateProfile(firstName, lastName string, now time.Time) error {
	if err := validateName("firstName", firstName); err != nil {
		return err
	}
	if err := validateName("lastName", lastName); err != nil {
		return err
	}
	u.firstName = firstName
	u.lastName = lastName
	t := now.UTC()
	u.updatedAt = &t
	return nil
}
