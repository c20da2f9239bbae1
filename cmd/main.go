package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"group_guard_bot/internal/bot"
	"group_guard_bot/internal/pkg/settings/repository"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on the environment")
	}

	token := os.Getenv("TELEGRAM_TOKEN")
	if token == "" {
		log.Fatal("TELEGRAM_TOKEN is not set")
	}

	adminID, err := strconv.ParseInt(os.Getenv("ADMIN_ID"), 10, 64)
	if err != nil {
		log.Fatal("ADMIN_ID must be set to the owner's Telegram user id")
	}

	store, err := openStore()
	if err != nil {
		log.Fatalf("Failed to open settings store: %v", err)
	}
	defer store.Close()

	cfg := bot.Config{
		Token:        token,
		AdminID:      adminID,
		SpamWindow:   envDuration("SPAM_WINDOW", 60*time.Second),
		SpamMinGap:   envDuration("SPAM_MIN_GAP", 2*time.Second),
		SpamMaxCount: envInt("SPAM_MAX_PER_WINDOW", 10),
		MuteDuration: envDuration("MUTE_DURATION", time.Hour),
		WelcomeDelay: envDuration("WELCOME_DELETE_DELAY", 10*time.Second),
	}

	b, err := bot.New(cfg, store)
	if err != nil {
		log.Fatalf("Failed to start bot: %v", err)
	}

	b.Start()
}

// openStore picks Postgres when DATABASE_URL is set, otherwise a local
// SQLite file.
func openStore() (repository.Store, error) {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return repository.NewPostgresStore(dsn)
	}

	path := os.Getenv("SQLITE_PATH")
	if path == "" {
		path = "./guard_bot.db"
	}
	return repository.NewSQLiteStore(path)
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Bad %s=%q, using %s", key, raw, fallback)
		return fallback
	}
	return d
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Bad %s=%q, using %d", key, raw, fallback)
		return fallback
	}
	return n
}
