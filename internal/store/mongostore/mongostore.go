package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/dentaclinic-api/internal/store"
)

// Collection names.
const (
	CollUsers         = "users"
	CollSuperAdmins   = "superadmins"
	CollClientAdmins  = "clientadmins"
	CollAdmins        = "admins"
	CollClinics       = "clinics"
	CollDoctors       = "doctors"
	CollReceptionists = "receptionists"
	CollPatients      = "patients"
	CollAppointments  = "appointments"
	CollBillings      = "billings"
	CollSettings      = "settings"
	CollCounters      = "counters"
)

// New wires every repository to its collection in db.
func New(db *mongo.Database) *store.Store {
	return &store.Store{
		Users:         &users{coll{db.Collection(CollUsers)}},
		SuperAdmins:   &profiles{coll{db.Collection(CollSuperAdmins)}},
		ClientAdmins:  &profiles{coll{db.Collection(CollClientAdmins)}},
		Admins:        &profiles{coll{db.Collection(CollAdmins)}},
		Clinics:       &clinics{coll{db.Collection(CollClinics)}},
		Doctors:       &doctors{coll{db.Collection(CollDoctors)}},
		Receptionists: &receptionists{coll{db.Collection(CollReceptionists)}},
		Patients:      &patients{coll{db.Collection(CollPatients)}},
		Appointments:  &appointments{coll{db.Collection(CollAppointments)}},
		Billings:      &billings{coll{db.Collection(CollBillings)}},
		Settings:      &settings{db.Collection(CollSettings)},
		Counters:      &counters{db.Collection(CollCounters)},
	}
}

// coll wraps the collection calls shared by every repository.
type coll struct {
	c *mongo.Collection
}

func (c coll) insert(ctx context.Context, doc interface{}) error {
	if _, err := c.c.InsertOne(ctx, doc); err != nil {
		return mapErr(err)
	}
	return nil
}

func (c coll) replace(ctx context.Context, id primitive.ObjectID, doc interface{}) error {
	res, err := c.c.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return mapErr(err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (c coll) deleteByID(ctx context.Context, id primitive.ObjectID) error {
	res, err := c.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mapErr(err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func findOne[T any](ctx context.Context, c *mongo.Collection, filter interface{}) (*T, error) {
	var out T
	if err := c.FindOne(ctx, filter).Decode(&out); err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

func findAll[T any](ctx context.Context, c *mongo.Collection, filter interface{}, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer cursor.Close(ctx)

	out := make([]T, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return out, nil
}

func newestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
}

func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return store.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	default:
		return err
	}
}
