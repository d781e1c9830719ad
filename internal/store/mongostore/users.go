package mongostore

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/dentaclinic-api/internal/models"
	"github.com/harentsoaR/dentaclinic-api/internal/store"
)

type users struct{ coll }

func (r *users) Create(ctx context.Context, u *models.User) error {
	now := time.Now().UTC()
	u.ID = primitive.NewObjectID()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.CreatedAt, u.UpdatedAt = now, now
	return r.insert(ctx, u)
}

func (r *users) ByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return findOne[models.User](ctx, r.c, bson.M{"_id": id})
}

func (r *users) ByEmail(ctx context.Context, email string) (*models.User, error) {
	return findOne[models.User](ctx, r.c, bson.M{"email": strings.ToLower(strings.TrimSpace(email))})
}

func (r *users) ExistsWithRole(ctx context.Context, role string) (bool, error) {
	n, err := r.c.CountDocuments(ctx, bson.M{"role": role})
	if err != nil {
		return false, mapErr(err)
	}
	return n > 0, nil
}

func (r *users) Update(ctx context.Context, u *models.User) error {
	u.UpdatedAt = time.Now().UTC()
	return r.replace(ctx, u.ID, u)
}

func (r *users) TouchLastLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	res, err := r.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"lastLogin": at}})
	if err != nil {
		return mapErr(err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *users) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.deleteByID(ctx, id)
}
