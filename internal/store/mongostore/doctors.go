package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/dentaclinic-api/internal/models"
)

type doctors struct{ coll }

func (r *doctors) Create(ctx context.Context, d *models.Doctor) error {
	now := time.Now().UTC()
	d.ID = primitive.NewObjectID()
	d.CreatedAt, d.UpdatedAt = now, now
	return r.insert(ctx, d)
}

func (r *doctors) ByID(ctx context.Context, id primitive.ObjectID) (*models.Doctor, error) {
	return findOne[models.Doctor](ctx, r.c, bson.M{"_id": id})
}

func (r *doctors) ByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Doctor, error) {
	return findOne[models.Doctor](ctx, r.c, bson.M{"userId": userID})
}

func (r *doctors) ByClinics(ctx context.Context, clinicIDs []primitive.ObjectID) ([]models.Doctor, error) {
	return findAll[models.Doctor](ctx, r.c, bson.M{"clinicId": bson.M{"$in": clinicIDs}}, newestFirst())
}

func (r *doctors) Update(ctx context.Context, d *models.Doctor) error {
	d.UpdatedAt = time.Now().UTC()
	return r.replace(ctx, d.ID, d)
}

type receptionists struct{ coll }

func (r *receptionists) Create(ctx context.Context, rec *models.Receptionist) error {
	now := time.Now().UTC()
	rec.ID = primitive.NewObjectID()
	rec.CreatedAt, rec.UpdatedAt = now, now
	return r.insert(ctx, rec)
}

func (r *receptionists) ByClinics(ctx context.Context, clinicIDs []primitive.ObjectID) ([]models.Receptionist, error) {
	return findAll[models.Receptionist](ctx, r.c, bson.M{"clinicId": bson.M{"$in": clinicIDs}}, newestFirst())
}
