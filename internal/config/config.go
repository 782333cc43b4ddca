package config

import (
	"os"
	"strings"
	"time"
)

type Config struct {
	ServerAddress  string
	MongoURI       string
	MongoDB        string
	JWTSecret      string
	AdminIDs       []string
	WordListFile   string
	WebhookURL     string
	TickInterval   time.Duration
	WebhookTimeout time.Duration
}

func Load() *Config {
	return &Config{
		ServerAddress:  getEnv("SERVER_ADDRESS", ":8080"),
		MongoURI:       getEnv("MONGO_URI", ""),
		MongoDB:        getEnv("MONGO_DB", "zealous"),
		JWTSecret:      getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		AdminIDs:       splitList(getEnv("ADMIN_IDS", "")),
		WordListFile:   getEnv("WORD_LIST_FILE", "./forbidden_words.txt"),
		WebhookURL:     getEnv("TRANSPORT_WEBHOOK_URL", "http://localhost:9090/bridge"),
		TickInterval:   getDuration("TICK_INTERVAL", 60*time.Second),
		WebhookTimeout: 10 * time.Second,
	}
}

// IsAdmin reports whether the given user id is in the administrator set.
func (c *Config) IsAdmin(userID string) bool {
	for _, id := range c.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
