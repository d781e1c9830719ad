package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/dentaclinic-api/internal/models"
)

type profiles struct{ coll }

func (r *profiles) Create(ctx context.Context, p *models.AdminProfile) error {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.CreatedAt, p.UpdatedAt = now, now
	return r.insert(ctx, p)
}

func (r *profiles) ByID(ctx context.Context, id primitive.ObjectID) (*models.AdminProfile, error) {
	return findOne[models.AdminProfile](ctx, r.c, bson.M{"_id": id})
}

func (r *profiles) ByUserID(ctx context.Context, userID primitive.ObjectID) (*models.AdminProfile, error) {
	return findOne[models.AdminProfile](ctx, r.c, bson.M{"userId": userID})
}

func (r *profiles) List(ctx context.Context) ([]models.AdminProfile, error) {
	return findAll[models.AdminProfile](ctx, r.c, bson.M{}, newestFirst())
}

func (r *profiles) Update(ctx context.Context, p *models.AdminProfile) error {
	p.UpdatedAt = time.Now().UTC()
	return r.replace(ctx, p.ID, p)
}
