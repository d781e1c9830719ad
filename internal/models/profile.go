package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdminProfile is the shape shared by SuperAdmin, ClientAdmin and Admin
// documents. Each kind lives in its own collection.
type AdminProfile struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId" validate:"required"`
	FullName      string             `bson:"fullName" json:"fullName"`
	ContactNumber string             `bson:"contactNumber,omitempty" json:"contactNumber,omitempty" validate:"omitempty,phone"`
	Address       string             `bson:"address,omitempty" json:"address,omitempty"`
	Permissions   Permissions        `bson:"permissions" json:"permissions"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type (
	SuperAdmin  = AdminProfile
	ClientAdmin = AdminProfile
	Admin       = AdminProfile
)

// Permissions is a map of named boolean capabilities.
type Permissions map[string]bool

var defaultPermissions = map[string][]string{
	RoleSuperAdmin:   {"manageClientAdmins", "manageAdmins", "manageClinics", "viewReports", "manageSettings"},
	RoleAdmin:        {"manageClinics", "viewReports"},
	RoleClientAdmin:  {"manageClinics", "manageDoctors", "manageReceptionists", "viewReports", "manageBilling"},
	RoleDoctor:       {"managePatients", "manageAppointments", "manageBilling", "viewReports"},
	RoleReceptionist: {"managePatients", "manageAppointments", "viewBilling"},
}

// DefaultPermissions returns a fresh permissions map for role with every
// capability enabled.
func DefaultPermissions(role string) Permissions {
	p := Permissions{}
	for _, name := range defaultPermissions[role] {
		p[name] = true
	}
	return p
}
