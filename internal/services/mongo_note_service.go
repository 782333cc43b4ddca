package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zealous/backend/internal/models"
)

type MongoNoteService struct {
	client *mongo.Client
	col    *mongo.Collection
}

func NewMongoNoteService(ctx context.Context, mongoURI, dbName string) (*MongoNoteService, error) {
	client, err := connectMongo(ctx, mongoURI)
	if err != nil {
		return nil, err
	}
	col := client.Database(dbName).Collection("notes")

	_, _ = col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})

	return &MongoNoteService{client: client, col: col}, nil
}

func (s *MongoNoteService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoNoteService) Add(ctx context.Context, userID, text string, now time.Time) (models.Note, error) {
	note := models.Note{
		ID:        uuid.New().String(),
		UserID:    userID,
		Text:      text,
		CreatedAt: now,
	}
	_, err := s.col.InsertOne(ctx, note)
	return note, err
}

func (s *MongoNoteService) ListForUser(ctx context.Context, userID string) ([]models.Note, error) {
	cur, err := s.col.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Note
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoNoteService) Delete(ctx context.Context, id, userID string) (bool, error) {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
