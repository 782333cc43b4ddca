package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/zealous/backend/internal/config"
	"github.com/zealous/backend/internal/services"
	"github.com/zealous/backend/internal/storage"
)

// reminder-worker is the standalone delivery loop for Mongo deployments where
// the API server is scaled separately. Every tick it fetches due reminders,
// removes each one, and attempts delivery exactly once.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	if cfg.MongoURI == "" {
		log.Fatal("MONGO_URI env var is not set; the worker needs the shared store")
	}

	wordFile, err := storage.NewWordFile(cfg.WordListFile)
	if err != nil {
		log.Fatalf("word list file: %v", err)
	}
	words := services.NewWordList(wordFile)

	userSvc, err := services.NewMongoUserService(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("mongo users: %v", err)
	}
	defer userSvc.Close(ctx)

	punishmentSvc, err := services.NewMongoPunishmentService(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("mongo punishments: %v", err)
	}
	defer punishmentSvc.Close(ctx)

	reminderSvc, err := services.NewMongoReminderService(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("mongo reminders: %v", err)
	}
	defer reminderSvc.Close(ctx)

	messageSvc, err := services.NewMongoMessageLogService(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("mongo message log: %v", err)
	}
	defer messageSvc.Close(ctx)

	transport := services.NewWebhookTransport(cfg.WebhookURL, cfg.WebhookTimeout)
	moderation := services.NewModerationService(words, userSvc, punishmentSvc, reminderSvc, messageSvc, transport)

	log.Printf("reminder-worker started, tick interval %s", cfg.TickInterval)

	ticker := time.NewTicker(cfg.TickInterval)
	defer ticker.Stop()
	for now := range ticker.C {
		tctx, cancel := context.WithTimeout(context.Background(), cfg.TickInterval)
		attempts, err := moderation.Tick(tctx, now)
		cancel()
		if err != nil {
			log.Printf("[worker] tick failed: %v", err)
			continue
		}
		if len(attempts) > 0 {
			delivered := 0
			for _, a := range attempts {
				if a.Delivered {
					delivered++
				}
			}
			log.Printf("[worker] tick done: %d due, %d delivered", len(attempts), delivered)
		}
	}
}
