package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is the access level assigned to a user account.
type Role string

const (
	RoleSeller Role = "Seller"
	RoleAdmin  Role = "Admin"
)

// User represents a registered account on the platform.
// Balance is the withdrawable amount in whole taka.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	MobileNo     string    `json:"mobileNo"`
	PasswordHash string    `json:"-"` // Never expose
	Role         Role      `json:"role"`
	Balance      int64     `json:"balance"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdmin returns true if the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Principal is the verified identity attached to a request after
// successful authentication. It is an immutable per-request value;
// it never outlives the request it was decoded for.
type Principal struct {
	UserID   uuid.UUID
	MobileNo string
	Role     Role
}
