package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/dentaclinic-api/internal/metrics"
	"github.com/harentsoaR/dentaclinic-api/internal/models"
	"github.com/harentsoaR/dentaclinic-api/internal/store"
)

type BillingInput struct {
	PatientID      string             `json:"patientId" binding:"required"`
	Treatments     []models.Treatment `json:"treatments" binding:"required,min=1"`
	Discount       float64            `json:"discount"`
	Advance        float64            `json:"advance"`
	AmountReceived float64            `json:"amountReceived"`
	ModeOfPayment  string             `json:"modeOfPayment"`
	Status         string             `json:"status"`
	Notes          string             `json:"notes"`
}

// BillingPatch replaces the fields it carries. Derived totals are never
// taken from the client.
type BillingPatch struct {
	Treatments     *[]models.Treatment `json:"treatments"`
	Discount       *float64            `json:"discount"`
	Advance        *float64            `json:"advance"`
	AmountReceived *float64            `json:"amountReceived"`
	ModeOfPayment  *string             `json:"modeOfPayment"`
	Status         *string             `json:"status"`
	Notes          *string             `json:"notes"`
}

func (p *BillingPatch) apply(b *models.Billing) {
	if p.Treatments != nil {
		b.Treatments = *p.Treatments
	}
	if p.Discount != nil {
		b.Discount = *p.Discount
	}
	if p.Advance != nil {
		b.Advance = *p.Advance
	}
	if p.AmountReceived != nil {
		b.AmountReceived = *p.AmountReceived
	}
	if p.ModeOfPayment != nil {
		b.ModeOfPayment = *p.ModeOfPayment
	}
	if p.Status != nil {
		b.Status = *p.Status
	}
	if p.Notes != nil {
		b.Notes = *p.Notes
	}
}

type BillingService struct {
	store   *store.Store
	metrics *metrics.Metrics
	log     *slog.Logger
}

func NewBillingService(s *store.Store, m *metrics.Metrics, log *slog.Logger) *BillingService {
	return &BillingService{store: s, metrics: m, log: log}
}

// totals recomputes the derived amounts of b and validates the result.
func totals(b *models.Billing) error {
	if err := b.ComputeTotals(); err != nil {
		if errors.Is(err, models.ErrDiscountExceedsTotal) {
			return invalid("discount", err.Error())
		}
		return err
	}
	return checkDoc(b)
}

func (s *BillingService) Create(ctx context.Context, caller Caller, in BillingInput) (*models.Billing, error) {
	d, err := doctorFor(ctx, s.store, caller)
	if err != nil {
		return nil, err
	}
	pid, err := parseID("patientId", in.PatientID)
	if err != nil {
		return nil, err
	}
	p, err := patientOf(ctx, s.store, d, pid)
	if err != nil {
		return nil, err
	}

	b := &models.Billing{
		PatientID:      p.ID,
		DoctorID:       d.ID,
		ClinicID:       d.ClinicID,
		Treatments:     in.Treatments,
		Discount:       in.Discount,
		Advance:        in.Advance,
		AmountReceived: in.AmountReceived,
		ModeOfPayment:  in.ModeOfPayment,
		Status:         lo.Ternary(in.Status == "", models.BillingPending, in.Status),
		Notes:          in.Notes,
	}
	// Sequence numbers are only spent on invoices that pass validation.
	b.InvoiceID = models.FormatInvoiceID(0)
	if err := totals(b); err != nil {
		return nil, err
	}
	seq, err := s.store.Counters.Next(ctx, store.SeqInvoice)
	if err != nil {
		return nil, err
	}
	b.InvoiceID = models.FormatInvoiceID(seq)

	if err := s.store.Billings.Create(ctx, b); err != nil {
		return nil, err
	}
	s.metrics.Event("billing", "created")
	s.log.Info("invoice created", "invoiceId", b.InvoiceID, "amountDue", b.AmountDue)
	return b, nil
}

func (s *BillingService) List(ctx context.Context, caller Caller) ([]models.Billing, error) {
	d, err := doctorFor(ctx, s.store, caller)
	if err != nil {
		return nil, err
	}
	return s.store.Billings.List(ctx, store.BillingFilter{DoctorID: &d.ID})
}

func (s *BillingService) ForPatient(ctx context.Context, caller Caller) ([]models.Billing, error) {
	p, err := patientFor(ctx, s.store, caller)
	if err != nil {
		return nil, err
	}
	return s.store.Billings.List(ctx, store.BillingFilter{PatientID: &p.ID})
}

// Update merges patch into the billing record and recomputes its totals, so
// applying the same patch twice leaves the same document.
func (s *BillingService) Update(ctx context.Context, caller Caller, id primitive.ObjectID, patch BillingPatch) (*models.Billing, error) {
	d, err := doctorFor(ctx, s.store, caller)
	if err != nil {
		return nil, err
	}
	b, err := s.store.Billings.ByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrBillingNotFound)
	}
	if b.DoctorID != d.ID {
		return nil, ErrBillingNotFound
	}

	patch.apply(b)
	if err := totals(b); err != nil {
		return nil, err
	}
	if err := s.store.Billings.Update(ctx, b); err != nil {
		return nil, notFound(err, ErrBillingNotFound)
	}
	s.metrics.Event("billing", "updated")
	return b, nil
}
