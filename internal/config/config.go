package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var validate = validator.New()

// WeatherConfig identifies the Weather Underground PWS station to read.
type WeatherConfig struct {
	APIKey    string `validate:"required"`
	StationID string `validate:"required"`
}

// Validate reports whether the fetch stage has everything it needs.
func (w WeatherConfig) Validate() error {
	return validate.Struct(w)
}

// AsteriskConfig holds the manager-interface endpoint and the AllStar node
// the announcement is originated against.
type AsteriskConfig struct {
	Host     string `validate:"required"`
	Port     int    `validate:"required"`
	Username string `validate:"required"`
	Secret   string `validate:"required"`
	Node     string `validate:"required"`
}

// Validate reports whether the announce stage has everything it needs.
// Missing telephony settings only surface here, never during the fetch.
func (a AsteriskConfig) Validate() error {
	return validate.Struct(a)
}

type AppConfig struct {
	Weather  WeatherConfig
	Asterisk AsteriskConfig

	// HTTPTimeout bounds the outbound observations request.
	HTTPTimeout time.Duration
}

// Load reads configuration from environment with sensible defaults.
// Presence of individual settings is checked per stage via Validate, not here.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}

	cfg.Weather.APIKey = os.Getenv("WU_API_KEY")
	cfg.Weather.StationID = os.Getenv("WU_STATION_ID")

	cfg.Asterisk.Host = getenvDefault("ASTERISK_HOST", "localhost")
	cfg.Asterisk.Port = getenvInt("ASTERISK_PORT", 5038)
	cfg.Asterisk.Username = os.Getenv("ASTERISK_USER")
	cfg.Asterisk.Secret = os.Getenv("ASTERISK_SECRET")
	cfg.Asterisk.Node = os.Getenv("ALLSTAR_NODE")

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
