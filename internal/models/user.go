package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleSuperAdmin   = "SuperAdmin"
	RoleAdmin        = "Admin"
	RoleClientAdmin  = "clientAdmin"
	RoleDoctor       = "Doctor"
	RoleReceptionist = "Receptionist"
	RolePatient      = "Patient"
)

const (
	StatusActive    = "Active"
	StatusInactive  = "Inactive"
	StatusSuspended = "Suspended"
)

// MinPasswordLength applies to the raw password before hashing.
const MinPasswordLength = 6

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email     string             `bson:"email" json:"email" validate:"required,email,lowercase"`
	Password  string             `bson:"password" json:"-" validate:"required"` // bcrypt hash, never serialized
	Role      string             `bson:"role" json:"role" validate:"required,oneof=SuperAdmin Admin clientAdmin Doctor Receptionist Patient"`
	Status    string             `bson:"status" json:"status" validate:"required,oneof=Active Inactive Suspended"`
	LastLogin *time.Time         `bson:"lastLogin,omitempty" json:"lastLogin,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Identity is the minimal view of a user embedded in session tokens.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (u *User) Identity() Identity {
	return Identity{ID: u.ID.Hex(), Email: u.Email, Role: u.Role}
}

func (u *User) IsActive() bool {
	return u.Status == "" || u.Status == StatusActive
}
