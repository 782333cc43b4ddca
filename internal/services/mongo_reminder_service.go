package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zealous/backend/internal/models"
)

type MongoReminderService struct {
	client   *mongo.Client
	col      *mongo.Collection
	counters *mongo.Collection
}

func NewMongoReminderService(ctx context.Context, mongoURI, dbName string) (*MongoReminderService, error) {
	client, err := connectMongo(ctx, mongoURI)
	if err != nil {
		return nil, err
	}
	db := client.Database(dbName)
	col := db.Collection("reminders")

	_, _ = col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "remind_at", Value: 1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
	})

	return &MongoReminderService{
		client:   client,
		col:      col,
		counters: db.Collection("counters"),
	}, nil
}

func (s *MongoReminderService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// nextID hands out a monotonically increasing sequence number so reminder ids
// stay small and human-quotable.
func (s *MongoReminderService) nextID(ctx context.Context) (int64, error) {
	var out struct {
		Seq int64 `bson:"seq"`
	}
	err := s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": "reminders"},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&out)
	if err != nil {
		return 0, err
	}
	return out.Seq, nil
}

func (s *MongoReminderService) Add(ctx context.Context, userID, text string, remindAt, now time.Time) (int64, error) {
	id, err := s.nextID(ctx)
	if err != nil {
		return 0, err
	}
	_, err = s.col.InsertOne(ctx, models.Reminder{
		ID:        id,
		UserID:    userID,
		Text:      text,
		RemindAt:  remindAt,
		CreatedAt: now,
	})
	return id, err
}

func (s *MongoReminderService) ListForUser(ctx context.Context, userID string) ([]models.Reminder, error) {
	return s.find(ctx, bson.M{"user_id": userID})
}

func (s *MongoReminderService) DueNow(ctx context.Context, now time.Time) ([]models.Reminder, error) {
	return s.find(ctx, bson.M{"remind_at": bson.M{"$lte": now}})
}

func (s *MongoReminderService) find(ctx context.Context, filter bson.M) ([]models.Reminder, error) {
	cur, err := s.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "remind_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Reminder
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Remove filters on both id and owner so the delete itself enforces ownership
// in a single round trip.
func (s *MongoReminderService) Remove(ctx context.Context, id int64, userID string) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"id": id, "user_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrReminderNotFound
	}
	return nil
}
