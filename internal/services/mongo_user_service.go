package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zealous/backend/internal/models"
)

type MongoUserService struct {
	client *mongo.Client
	col    *mongo.Collection
}

func NewMongoUserService(ctx context.Context, mongoURI, dbName string) (*MongoUserService, error) {
	client, err := connectMongo(ctx, mongoURI)
	if err != nil {
		return nil, err
	}
	col := client.Database(dbName).Collection("users")

	_, _ = col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})

	return &MongoUserService{client: client, col: col}, nil
}

func (s *MongoUserService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// UpsertActivity bumps last_seen (and the display name, which may change) and
// creates the profile with first_seen on first sight.
func (s *MongoUserService) UpsertActivity(ctx context.Context, userID, displayName string, now time.Time) error {
	update := bson.M{
		"$set":         bson.M{"display_name": displayName, "last_seen": now},
		"$setOnInsert": bson.M{"user_id": userID, "first_seen": now},
	}
	_, err := s.col.UpdateOne(ctx, bson.M{"user_id": userID}, update, options.Update().SetUpsert(true))
	return err
}

func (s *MongoUserService) Get(ctx context.Context, userID string) (models.User, error) {
	var out models.User
	err := s.col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, ErrUserNotFound
	}
	return out, err
}

func (s *MongoUserService) DisplayNames(ctx context.Context) (map[string]string, error) {
	cur, err := s.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	names := make(map[string]string)
	for cur.Next(ctx) {
		var u models.User
		if err := cur.Decode(&u); err != nil {
			return nil, err
		}
		names[u.ID] = u.DisplayName
	}
	return names, cur.Err()
}
