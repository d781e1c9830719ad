package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/dentaclinic-api/internal/models"
)

type clinics struct{ coll }

func (r *clinics) Create(ctx context.Context, c *models.Clinic) error {
	now := time.Now().UTC()
	c.ID = primitive.NewObjectID()
	c.CreatedAt, c.UpdatedAt = now, now
	return r.insert(ctx, c)
}

func (r *clinics) ByID(ctx context.Context, id primitive.ObjectID) (*models.Clinic, error) {
	return findOne[models.Clinic](ctx, r.c, bson.M{"_id": id})
}

func (r *clinics) ByClientAdmin(ctx context.Context, clientAdminID primitive.ObjectID) ([]models.Clinic, error) {
	return findAll[models.Clinic](ctx, r.c, bson.M{"clientAdminId": clientAdminID}, newestFirst())
}

func (r *clinics) List(ctx context.Context) ([]models.Clinic, error) {
	return findAll[models.Clinic](ctx, r.c, bson.M{}, newestFirst())
}

func (r *clinics) Update(ctx context.Context, c *models.Clinic) error {
	c.UpdatedAt = time.Now().UTC()
	return r.replace(ctx, c.ID, c)
}
