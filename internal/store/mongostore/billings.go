package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/dentaclinic-api/internal/models"
	"github.com/harentsoaR/dentaclinic-api/internal/store"
)

type billings struct{ coll }

func (r *billings) Create(ctx context.Context, b *models.Billing) error {
	now := time.Now().UTC()
	b.ID = primitive.NewObjectID()
	b.CreatedAt, b.UpdatedAt = now, now
	return r.insert(ctx, b)
}

func (r *billings) ByID(ctx context.Context, id primitive.ObjectID) (*models.Billing, error) {
	return findOne[models.Billing](ctx, r.c, bson.M{"_id": id})
}

func (r *billings) List(ctx context.Context, f store.BillingFilter) ([]models.Billing, error) {
	filter := bson.M{}
	if f.DoctorID != nil {
		filter["doctorId"] = *f.DoctorID
	}
	if f.PatientID != nil {
		filter["patientId"] = *f.PatientID
	}
	return findAll[models.Billing](ctx, r.c, filter, newestFirst())
}

func (r *billings) Update(ctx context.Context, b *models.Billing) error {
	b.UpdatedAt = time.Now().UTC()
	return r.replace(ctx, b.ID, b)
}
