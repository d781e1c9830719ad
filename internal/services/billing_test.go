package services

import (
	"context"
	"errors"
	"testing"

	"github.com/harentsoaR/dentaclinic-api/internal/models"
)

func TestBillingTotalsPersisted(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, doc := env.seedDoctor(t, "doc@x.com")
	p, pc := env.seedPatient(t, doc, "p@x.com")

	b, err := env.billing.Create(ctx, doc, BillingInput{
		PatientID: p.ID.Hex(),
		Treatments: []models.Treatment{
			{Name: "Cleaning", Price: 1500, Quantity: 1},
			{Name: "Filling", Price: 800.5, Quantity: 2},
		},
		Discount: 100, Advance: 500, AmountReceived: 1000, ModeOfPayment: "UPI",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if b.InvoiceID != "INV000001" || b.Status != models.BillingPending {
		t.Errorf("invoice/status = %s/%s", b.InvoiceID, b.Status)
	}
	if b.AmountBeforeDiscount != 3101 || b.TotalAmount != 3001 || b.AmountDue != 1501 {
		t.Errorf("totals = %v/%v/%v, want 3101/3001/1501", b.AmountBeforeDiscount, b.TotalAmount, b.AmountDue)
	}

	stored, _ := env.store.Billings.ByID(ctx, b.ID)
	if stored.AmountDue != b.AmountDue {
		t.Errorf("stored amountDue = %v", stored.AmountDue)
	}

	list, err := env.billing.ForPatient(ctx, pc)
	if err != nil || len(list) != 1 {
		t.Errorf("ForPatient() = %v, %v", list, err)
	}
}

func TestBillingRejectsExcessDiscount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, doc := env.seedDoctor(t, "doc@x.com")
	p, _ := env.seedPatient(t, doc, "p@x.com")

	_, err := env.billing.Create(ctx, doc, BillingInput{
		PatientID:  p.ID.Hex(),
		Treatments: []models.Treatment{{Name: "X-ray", Price: 300, Quantity: 1}},
		Discount:   400,
	})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "discount" {
		t.Fatalf("error = %v, want discount ValidationError", err)
	}

	b, err := env.billing.Create(ctx, doc, BillingInput{
		PatientID:  p.ID.Hex(),
		Treatments: []models.Treatment{{Name: "X-ray", Price: 300, Quantity: 1}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if b.InvoiceID != "INV000001" {
		t.Errorf("rejected invoice consumed a sequence number: %s", b.InvoiceID)
	}
}

func TestBillingUpdateIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, doc := env.seedDoctor(t, "doc@x.com")
	_, other := env.seedDoctor(t, "other@x.com")
	p, _ := env.seedPatient(t, doc, "p@x.com")

	b, err := env.billing.Create(ctx, doc, BillingInput{
		PatientID:  p.ID.Hex(),
		Treatments: []models.Treatment{{Name: "Root canal", Price: 4000, Quantity: 1}},
	})
	if err != nil {
		t.Fatal(err)
	}

	received := 2500.0
	status := models.BillingPartial
	patch := BillingPatch{AmountReceived: &received, Status: &status}

	first, err := env.billing.Update(ctx, doc, b.ID, patch)
	if err != nil {
		t.Fatalf("first Update() error = %v", err)
	}
	second, err := env.billing.Update(ctx, doc, b.ID, patch)
	if err != nil {
		t.Fatalf("second Update() error = %v", err)
	}

	second.UpdatedAt = first.UpdatedAt
	if first.AmountDue != 1500 || first.Status != models.BillingPartial {
		t.Errorf("first = %+v", first)
	}
	if first.AmountDue != second.AmountDue || first.TotalAmount != second.TotalAmount ||
		first.AmountReceived != second.AmountReceived || first.Status != second.Status ||
		len(first.Treatments) != len(second.Treatments) {
		t.Errorf("updates diverged:\n first  %+v\n second %+v", first, second)
	}

	if _, err := env.billing.Update(ctx, other, b.ID, patch); !errors.Is(err, ErrBillingNotFound) {
		t.Errorf("other doctor: error = %v", err)
	}
}
