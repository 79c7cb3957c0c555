package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/text/currency"
)

type Config struct {
	AppEnv   string
	LogLevel string

	// Currency of the cart total. Every catalog product must be priced in it.
	Currency currency.Unit
	// CatalogFile is a YAML catalog to use instead of the embedded fixture.
	CatalogFile string
}

// Load reads the given env files, .env by default, and then the environment.
// Missing env files are ignored; values already in the environment win.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}

	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("godotenv.Load: %w", err)
		}
	}

	code := getEnv("CART_CURRENCY", "USD")
	unit, err := currency.ParseISO(code)
	if err != nil {
		return Config{}, fmt.Errorf("CART_CURRENCY[%s] is not valid: %w", code, err)
	}

	return Config{
		AppEnv:      getEnv("APP_ENV", "dev"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Currency:    unit,
		CatalogFile: getEnv("CATALOG_FILE", ""),
	}, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
