package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	AppointmentScheduled = "Scheduled"
	AppointmentCompleted = "Completed"
	AppointmentCancelled = "Cancelled"
)

const (
	ConsultationNew      = "New"
	ConsultationFollowUp = "Follow-up"
)

type Appointment struct {
	ID               primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	DoctorID         primitive.ObjectID  `bson:"doctorId" json:"doctorId" validate:"required"`
	PatientID        primitive.ObjectID  `bson:"patientId" json:"patientId" validate:"required"`
	ClinicID         *primitive.ObjectID `bson:"clinicId,omitempty" json:"clinicId,omitempty"`
	AppointmentDate  time.Time           `bson:"appointmentDate" json:"appointmentDate" validate:"required"`
	TimeSlot         string              `bson:"timeSlot" json:"timeSlot" validate:"required,timeslot"`
	ConsultationType string              `bson:"consultationType" json:"consultationType" validate:"required,oneof=New Follow-up"`
	Status           string              `bson:"status" json:"status" validate:"required,oneof=Scheduled Completed Cancelled"`
	Treatments       []string            `bson:"treatments,omitempty" json:"treatments,omitempty"`
	Teeth            []string            `bson:"teeth,omitempty" json:"teeth,omitempty"`
	Notes            string              `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedBy        primitive.ObjectID  `bson:"createdBy" json:"createdBy"`
	CreatedAt        time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time           `bson:"updatedAt" json:"updatedAt"`
}
