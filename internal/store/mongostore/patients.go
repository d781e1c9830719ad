package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/dentaclinic-api/internal/models"
)

type patients struct{ coll }

func (r *patients) Create(ctx context.Context, p *models.Patient) error {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.CreatedAt, p.UpdatedAt = now, now
	return r.insert(ctx, p)
}

func (r *patients) ByID(ctx context.Context, id primitive.ObjectID) (*models.Patient, error) {
	return findOne[models.Patient](ctx, r.c, bson.M{"_id": id})
}

func (r *patients) ByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Patient, error) {
	return findOne[models.Patient](ctx, r.c, bson.M{"userId": userID})
}

func (r *patients) ByDoctor(ctx context.Context, doctorID primitive.ObjectID) ([]models.Patient, error) {
	return findAll[models.Patient](ctx, r.c, bson.M{"DoctorId": doctorID}, newestFirst())
}

func (r *patients) Count(ctx context.Context) (int64, error) {
	n, err := r.c.CountDocuments(ctx, bson.M{})
	return n, mapErr(err)
}

func (r *patients) Update(ctx context.Context, p *models.Patient) error {
	p.UpdatedAt = time.Now().UTC()
	return r.replace(ctx, p.ID, p)
}
