package models

import (
	"errors"
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	BillingPending   = "Pending"
	BillingPaid      = "Paid"
	BillingPartial   = "Partial"
	BillingCancelled = "Cancelled"
)

const InvoiceIDPrefix = "INV"

type Billing struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	InvoiceID            string             `bson:"invoiceId" json:"invoiceId" validate:"required"`
	PatientID            primitive.ObjectID `bson:"patientId" json:"patientId" validate:"required"`
	DoctorID             primitive.ObjectID `bson:"doctorId" json:"doctorId" validate:"required"`
	ClinicID             primitive.ObjectID `bson:"clinicId" json:"clinicId" validate:"required"`
	Treatments           []Treatment        `bson:"treatments" json:"treatments" validate:"required,min=1,dive"`
	Discount             float64            `bson:"discount" json:"discount" validate:"gte=0"`
	Advance              float64            `bson:"advance" json:"advance" validate:"gte=0"`
	AmountReceived       float64            `bson:"amountReceived" json:"amountReceived" validate:"gte=0"`
	AmountBeforeDiscount float64            `bson:"amountBeforeDiscount" json:"amountBeforeDiscount"`
	TotalAmount          float64            `bson:"totalAmount" json:"totalAmount"`
	AmountDue            float64            `bson:"amountDue" json:"amountDue"`
	ModeOfPayment        string             `bson:"modeOfPayment,omitempty" json:"modeOfPayment,omitempty" validate:"omitempty,oneof=Cash Card UPI Insurance Other"`
	Status               string             `bson:"status" json:"status" validate:"required,oneof=Pending Paid Partial Cancelled"`
	Notes                string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt            time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type Treatment struct {
	Name     string  `bson:"name" json:"name" validate:"required"`
	Price    float64 `bson:"price" json:"price" validate:"gte=0"`
	Quantity int     `bson:"quantity" json:"quantity" validate:"gte=1"`
}

// ErrDiscountExceedsTotal is returned by ComputeTotals when the discount is
// larger than the treatment subtotal.
var ErrDiscountExceedsTotal = errors.New("discount exceeds amount before discount")

// ComputeTotals derives the persisted totals from treatments and payments.
// The result is a pure function of the inputs so repeated writes of the same
// document converge on the same state.
func (b *Billing) ComputeTotals() error {
	var before float64
	for _, t := range b.Treatments {
		before += t.Price * float64(t.Quantity)
	}
	before = roundCents(before)
	if b.Discount > before {
		return ErrDiscountExceedsTotal
	}

	b.AmountBeforeDiscount = before
	b.TotalAmount = roundCents(math.Max(0, before-b.Discount))
	b.AmountDue = roundCents(math.Max(0, b.TotalAmount-b.Advance-b.AmountReceived))
	return nil
}

// FormatInvoiceID renders a sequence number as an invoice id, e.g. INV000007.
func FormatInvoiceID(seq int64) string {
	return fmt.Sprintf("%s%06d", InvoiceIDPrefix, seq)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
