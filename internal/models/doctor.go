package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Doctor struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId" validate:"required"`
	ClinicID        primitive.ObjectID `bson:"clinicId" json:"clinicId" validate:"required"`
	FullName        string             `bson:"fullName" json:"fullName" validate:"required"`
	Specialization  string             `bson:"specialization" json:"specialization"`
	ContactNumber   string             `bson:"contactNumber,omitempty" json:"contactNumber,omitempty" validate:"omitempty,phone"`
	Qualifications  []string           `bson:"qualifications" json:"qualifications"`
	ExperienceYears int                `bson:"experienceYears" json:"experienceYears" validate:"gte=0,lte=80"`
	WorkingHours    []WorkingHours     `bson:"workingHours" json:"workingHours" validate:"dive"`
	Permissions     Permissions        `bson:"permissions" json:"permissions"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type WorkingHours struct {
	Day   string `bson:"day" json:"day" validate:"required,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	Start string `bson:"start" json:"start" validate:"required"`
	End   string `bson:"end" json:"end" validate:"required"`
}

// DoctorProfile is the doctor's own view of their record. It never carries
// the permissions map or the owning user id.
type DoctorProfile struct {
	ID              primitive.ObjectID `json:"id"`
	ClinicID        primitive.ObjectID `json:"clinicId"`
	FullName        string             `json:"fullName"`
	Specialization  string             `json:"specialization"`
	ContactNumber   string             `json:"contactNumber,omitempty"`
	Qualifications  []string           `json:"qualifications"`
	ExperienceYears int                `json:"experienceYears"`
	WorkingHours    []WorkingHours     `json:"workingHours"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}

func (d *Doctor) Profile() DoctorProfile {
	return DoctorProfile{
		ID:              d.ID,
		ClinicID:        d.ClinicID,
		FullName:        d.FullName,
		Specialization:  d.Specialization,
		ContactNumber:   d.ContactNumber,
		Qualifications:  d.Qualifications,
		ExperienceYears: d.ExperienceYears,
		WorkingHours:    d.WorkingHours,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

type Receptionist struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId" validate:"required"`
	ClinicID      primitive.ObjectID `bson:"clinicId" json:"clinicId" validate:"required"`
	FullName      string             `bson:"fullName" json:"fullName" validate:"required"`
	ContactNumber string             `bson:"contactNumber,omitempty" json:"contactNumber,omitempty" validate:"omitempty,phone"`
	Permissions   Permissions        `bson:"permissions" json:"permissions"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}
