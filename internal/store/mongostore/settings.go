package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/dentaclinic-api/internal/models"
)

type settings struct {
	c *mongo.Collection
}

func (r *settings) Get(ctx context.Context, key string) (interface{}, error) {
	var s models.Setting
	if err := r.c.FindOne(ctx, bson.M{"key": key}).Decode(&s); err != nil {
		return nil, mapErr(err)
	}
	return s.Value, nil
}

func (r *settings) Set(ctx context.Context, key string, value interface{}) error {
	_, err := r.c.UpdateOne(ctx,
		bson.M{"key": key},
		bson.M{"$set": bson.M{"value": value}},
		options.Update().SetUpsert(true),
	)
	return mapErr(err)
}

type counters struct {
	c *mongo.Collection
}

type counterDoc struct {
	Name string `bson:"_id"`
	Seq  int64  `bson:"seq"`
}

// Next atomically increments and returns the named sequence.
func (r *counters) Next(ctx context.Context, name string) (int64, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var doc counterDoc
	err := r.c.FindOneAndUpdate(ctx, bson.M{"_id": name}, bson.M{"$inc": bson.M{"seq": int64(1)}}, opts).Decode(&doc)
	if err != nil {
		return 0, mapErr(err)
	}
	return doc.Seq, nil
}

func (r *counters) Seed(ctx context.Context, name string, floor int64) error {
	_, err := r.c.UpdateOne(ctx,
		bson.M{"_id": name},
		bson.M{"$max": bson.M{"seq": floor}},
		options.Update().SetUpsert(true),
	)
	return mapErr(err)
}
