package models

import (
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PatientIDPrefix is prepended to the zero padded patient sequence number.
const PatientIDPrefix = "ES"

type Patient struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID             primitive.ObjectID `bson:"userId" json:"userId" validate:"required"`
	DoctorID           primitive.ObjectID `bson:"DoctorId" json:"DoctorId" validate:"required"`
	ClinicID           primitive.ObjectID `bson:"ClinicId" json:"ClinicId" validate:"required"`
	PatientID          string             `bson:"PatientId" json:"PatientId" validate:"required,patientid"`
	FullName           string             `bson:"fullName" json:"fullName" validate:"required"`
	ContactNumber      string             `bson:"contactNumber,omitempty" json:"contactNumber,omitempty" validate:"omitempty,phone"`
	Gender             string             `bson:"gender,omitempty" json:"gender,omitempty" validate:"omitempty,oneof=Male Female Other"`
	DateOfBirth        *time.Time         `bson:"dateOfBirth,omitempty" json:"dateOfBirth,omitempty"`
	Age                int                `bson:"age,omitempty" json:"age,omitempty" validate:"gte=0,lte=150"`
	Address            string             `bson:"address,omitempty" json:"address,omitempty"`
	MedicalHistory     []string           `bson:"medicalHistory" json:"medicalHistory"`
	CurrentMedications []string           `bson:"currentMedications" json:"currentMedications"`
	EmergencyContact   *EmergencyContact  `bson:"emergencyContact,omitempty" json:"emergencyContact,omitempty"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type EmergencyContact struct {
	Name          string `bson:"name" json:"name" validate:"required"`
	Relation      string `bson:"relation,omitempty" json:"relation,omitempty"`
	ContactNumber string `bson:"contactNumber" json:"contactNumber" validate:"required,phone"`
}

// At least six digits: the padding is a minimum, so ids keep working past
// ES999999.
var patientIDPattern = regexp.MustCompile(`^` + PatientIDPrefix + `\d{6,}$`)

func IsPatientID(s string) bool {
	return patientIDPattern.MatchString(s)
}

// FormatPatientID renders a sequence number as a display id, e.g. ES000042.
func FormatPatientID(seq int64) string {
	return fmt.Sprintf("%s%06d", PatientIDPrefix, seq)
}
