package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zealous/backend/internal/models"
)

type MongoPunishmentService struct {
	client *mongo.Client
	col    *mongo.Collection
}

func NewMongoPunishmentService(ctx context.Context, mongoURI, dbName string) (*MongoPunishmentService, error) {
	client, err := connectMongo(ctx, mongoURI)
	if err != nil {
		return nil, err
	}
	col := client.Database(dbName).Collection("punishments")

	_, _ = col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})

	return &MongoPunishmentService{client: client, col: col}, nil
}

func (s *MongoPunishmentService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Get returns the stored record, or the default record when the user has none
// yet. A record with an unknown tier value is normalized to ShortMute rather
// than poisoning the state machine.
func (s *MongoPunishmentService) Get(ctx context.Context, userID string) (models.PunishmentRecord, error) {
	var out models.PunishmentRecord
	err := s.col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.DefaultPunishmentRecord(userID), nil
	}
	if err != nil {
		return models.PunishmentRecord{}, err
	}
	if !out.NextMuteType.Valid() {
		out.NextMuteType = models.ShortMute
	}
	return out, nil
}

func (s *MongoPunishmentService) Save(ctx context.Context, rec models.PunishmentRecord) error {
	_, err := s.col.ReplaceOne(ctx, bson.M{"user_id": rec.UserID}, rec, options.Replace().SetUpsert(true))
	return err
}

// Clear drops the user's record; the next Get observes defaults.
func (s *MongoPunishmentService) Clear(ctx context.Context, userID string) error {
	_, err := s.col.DeleteOne(ctx, bson.M{"user_id": userID})
	return err
}
