package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ClinicActive    = "active"
	ClinicInactive  = "inactive"
	ClinicPending   = "pending"
	ClinicSuspended = "suspended"
)

type Clinic struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientAdminID      primitive.ObjectID `bson:"clientAdminId" json:"clientAdminId" validate:"required"`
	Name               string             `bson:"name" json:"name" validate:"required"`
	RegistrationNumber string             `bson:"registrationNumber" json:"registrationNumber" validate:"required"`
	Email              string             `bson:"email" json:"email" validate:"required,email"`
	Phone              string             `bson:"phone,omitempty" json:"phone,omitempty" validate:"omitempty,phone"`
	Address            Address            `bson:"address" json:"address"`
	Services           []ClinicService    `bson:"services" json:"services" validate:"dive"`
	BusinessHours      []BusinessHours    `bson:"businessHours" json:"businessHours" validate:"dive"`
	SubscriptionPlan   *SubscriptionPlan  `bson:"subscriptionPlan,omitempty" json:"subscriptionPlan,omitempty"`
	AppointmentPolicy  *AppointmentPolicy `bson:"appointmentPolicy,omitempty" json:"appointmentPolicy,omitempty"`
	PaymentDetails     *PaymentDetails    `bson:"paymentDetails,omitempty" json:"paymentDetails,omitempty"`
	Status             string             `bson:"status" json:"status" validate:"required,oneof=active inactive pending suspended"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type Address struct {
	Street     string `bson:"street,omitempty" json:"street,omitempty"`
	City       string `bson:"city,omitempty" json:"city,omitempty"`
	State      string `bson:"state,omitempty" json:"state,omitempty"`
	PostalCode string `bson:"postalCode,omitempty" json:"postalCode,omitempty"`
	Country    string `bson:"country,omitempty" json:"country,omitempty"`
}

type ClinicService struct {
	Name            string  `bson:"name" json:"name" validate:"required"`
	Price           float64 `bson:"price" json:"price" validate:"gte=0"`
	DurationMinutes int     `bson:"durationMinutes,omitempty" json:"durationMinutes,omitempty" validate:"gte=0"`
}

type BusinessHours struct {
	Day    string `bson:"day" json:"day" validate:"required,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	Open   string `bson:"open,omitempty" json:"open,omitempty"`
	Close  string `bson:"close,omitempty" json:"close,omitempty"`
	Closed bool   `bson:"closed" json:"closed"`
}

type SubscriptionPlan struct {
	Name      string     `bson:"name" json:"name" validate:"required,oneof=Basic Standard Premium"`
	StartDate *time.Time `bson:"startDate,omitempty" json:"startDate,omitempty"`
	EndDate   *time.Time `bson:"endDate,omitempty" json:"endDate,omitempty"`
	Status    string     `bson:"status,omitempty" json:"status,omitempty" validate:"omitempty,oneof=active expired cancelled trial"`
}

type AppointmentPolicy struct {
	SlotDurationMinutes int  `bson:"slotDurationMinutes" json:"slotDurationMinutes" validate:"gte=0"`
	AllowOnlineBooking  bool `bson:"allowOnlineBooking" json:"allowOnlineBooking"`
	CancellationHours   int  `bson:"cancellationHours" json:"cancellationHours" validate:"gte=0"`
}

type PaymentDetails struct {
	AcceptedModes []string `bson:"acceptedModes,omitempty" json:"acceptedModes,omitempty" validate:"dive,oneof=Cash Card UPI Insurance Other"`
	UPIID         string   `bson:"upiId,omitempty" json:"upiId,omitempty"`
	BankAccount   string   `bson:"bankAccount,omitempty" json:"bankAccount,omitempty"`
}
