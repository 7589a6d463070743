package model

import "time"

// Role identifies which kind of participant an account belongs to. The
// value is stored on the accounts row and selects the profile table that
// holds the role-specific attributes.
type Role string

const (
	RoleDonor      Role = "donor"
	RoleNGO        Role = "ngo"
	RoleCampaigner Role = "campaigner"
	RoleAdmin      Role = "admin"
)

// ParseRole normalizes a client-supplied role string. The second return
// value is false for anything outside the four known roles.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleDonor, RoleNGO, RoleCampaigner, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

// Account mirrors the `accounts` table: one row per login identity.
// Email is unique across all roles; the unique index on the column is the
// source of truth, pre-insert lookups are an optimization only.
type Account struct {
	ID           uint64
	Email        string
	PasswordHash string
	Role         Role
	IsVerified   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
