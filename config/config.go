package config

import (
	"fmt"
	"os"
)

type Config struct {
	TelegramToken string
	DatabaseURL   string
	DatabasePath  string
}

func Load() (*Config, error) {
	token := os.Getenv("BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "./data/remindbot.db"
	}

	return &Config{
		TelegramToken: token,
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		DatabasePath:  dbPath,
	}, nil
}
