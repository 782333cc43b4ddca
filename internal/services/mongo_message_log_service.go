package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/zealous/backend/internal/models"
)

type MongoMessageLogService struct {
	client *mongo.Client
	col    *mongo.Collection
}

func NewMongoMessageLogService(ctx context.Context, mongoURI, dbName string) (*MongoMessageLogService, error) {
	client, err := connectMongo(ctx, mongoURI)
	if err != nil {
		return nil, err
	}
	col := client.Database(dbName).Collection("message_log")

	_, _ = col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
	})

	return &MongoMessageLogService{client: client, col: col}, nil
}

func (s *MongoMessageLogService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoMessageLogService) Record(ctx context.Context, userID string, now time.Time) error {
	_, err := s.col.InsertOne(ctx, bson.M{"user_id": userID, "timestamp": now})
	return err
}

func (s *MongoMessageLogService) CountForUser(ctx context.Context, userID string) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{"user_id": userID})
}

func (s *MongoMessageLogService) Leaderboard(ctx context.Context, since time.Time, limit int) ([]models.LeaderboardEntry, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"timestamp": bson.M{"$gte": since}}}},
		{{Key: "$group", Value: bson.M{"_id": "$user_id", "message_count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.M{"message_count": -1}}},
		{{Key: "$limit", Value: limit}},
	}
	return s.aggregate(ctx, pipeline)
}

func (s *MongoMessageLogService) Ranking(ctx context.Context) ([]models.LeaderboardEntry, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$user_id", "message_count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.M{"message_count": -1}}},
	}
	return s.aggregate(ctx, pipeline)
}

func (s *MongoMessageLogService) aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]models.LeaderboardEntry, error) {
	cur, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.LeaderboardEntry
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
