package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/zealous/backend/internal/config"
	"github.com/zealous/backend/internal/handlers"
	appMiddleware "github.com/zealous/backend/internal/middleware"
	"github.com/zealous/backend/internal/services"
	"github.com/zealous/backend/internal/storage"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	wordFile, err := storage.NewWordFile(cfg.WordListFile)
	if err != nil {
		log.Fatalf("word list file: %v", err)
	}
	words := services.NewWordList(wordFile)

	transport := services.NewWebhookTransport(cfg.WebhookURL, cfg.WebhookTimeout)

	var (
		users       services.UserStore
		punishments services.PunishmentStore
		reminders   services.ReminderStore
		notes       services.NoteStore
		messages    services.MessageLogStore
	)

	if cfg.MongoURI != "" {
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

		noteSvc, err := services.NewMongoNoteService(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			log.Fatalf("mongo notes: %v", err)
		}
		defer noteSvc.Close(ctx)

		messageSvc, err := services.NewMongoMessageLogService(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			log.Fatalf("mongo message log: %v", err)
		}
		defer messageSvc.Close(ctx)

		users, punishments, reminders, notes, messages = userSvc, punishmentSvc, reminderSvc, noteSvc, messageSvc
		log.Printf("MongoDB connected: db=%s", cfg.MongoDB)
	} else {
		log.Printf("MONGO_URI not set, using in-memory stores (state is lost on restart)")
		users = services.NewMemoryUserService()
		punishments = services.NewMemoryPunishmentService()
		reminders = services.NewMemoryReminderService()
		notes = services.NewMemoryNoteService()
		messages = services.NewMemoryMessageLogService()
	}

	moderation := services.NewModerationService(words, users, punishments, reminders, messages, transport)
	stats := services.NewStatsService(users, punishments, messages)

	messageHandler := handlers.NewMessageHandler(moderation)
	reminderHandler := handlers.NewReminderHandler(reminders)
	noteHandler := handlers.NewNoteHandler(notes)
	statsHandler := handlers.NewStatsHandler(stats)
	adminHandler := handlers.NewAdminHandler(moderation, words)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.JWTAuth(cfg.JWTSecret))

			r.Post("/messages", messageHandler.Evaluate)

			r.Route("/reminders", func(r chi.Router) {
				r.Get("/", reminderHandler.List)
				r.Post("/", reminderHandler.Create)
				r.Delete("/{reminderId}", reminderHandler.Delete)
			})

			r.Route("/notes", func(r chi.Router) {
				r.Get("/", noteHandler.List)
				r.Post("/", noteHandler.Create)
				r.Delete("/{noteId}", noteHandler.Delete)
			})

			r.Get("/stats", statsHandler.Report)

			r.Route("/admin", func(r chi.Router) {
				r.Use(appMiddleware.AdminOnly(cfg.IsAdmin))
				r.Post("/punishments/{userId}/clear", adminHandler.ClearPunishments)
				r.Post("/words", adminHandler.AddWord)
				r.Post("/words/reload", adminHandler.ReloadWords)
			})
		})
	})

	// Reminder tick. The standalone reminder-worker can take this over in a
	// Mongo deployment; running both is safe because each reminder is removed
	// before its delivery attempt.
	go func() {
		ticker := time.NewTicker(cfg.TickInterval)
		defer ticker.Stop()
		for now := range ticker.C {
			tctx, cancel := context.WithTimeout(context.Background(), cfg.TickInterval)
			if _, err := moderation.Tick(tctx, now); err != nil {
				log.Printf("[tick] %v", err)
			}
			cancel()
		}
	}()

	log.Printf("ZeaLouS moderation API listening on %s", cfg.ServerAddress)
	if err := http.ListenAndServe(cfg.ServerAddress, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
