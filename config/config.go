package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// HTTPDisabled значение HTTP_ADDR, отключающее HTTP API.
const HTTPDisabled = "-"

type Config struct {
	TelegramToken string
	HTTPAddr      string
	AppEnv        string

	ArtifactDir        string
	ScalerArtifact     string
	ClassifierArtifact string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioSecure    bool

	RedisAddr   string
	DatabaseURL string

	ClaheClipLimit float64
	ClaheTileGrid  int
}

// Load читает настройки сервиса: должен быть включён бот или HTTP API.
func Load() (*Config, error) {
	cfg, err := Parse()
	if err != nil {
		return nil, err
	}
	if cfg.TelegramToken == "" && !cfg.HTTPEnabled() {
		return nil, errors.New("nothing to run: set TELEGRAM_TOKEN or HTTP_ADDR")
	}
	return cfg, nil
}

// Parse читает настройки без проверки транспортов, для утилит командной строки.
func Parse() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken:      os.Getenv("TELEGRAM_TOKEN"),
		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		AppEnv:             os.Getenv("APP_ENV"),
		ArtifactDir:        getEnv("ARTIFACT_DIR", "./artifacts"),
		ScalerArtifact:     getEnv("SCALER_ARTIFACT", "image_vect.gob"),
		ClassifierArtifact: getEnv("CLASSIFIER_ARTIFACT", "image_dec.gob"),
		MinioEndpoint:      os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey:     os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey:     os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:        os.Getenv("MINIO_BUCKET"),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
	}

	var err error
	if cfg.MinioSecure, err = getBool("MINIO_SECURE", true); err != nil {
		return nil, err
	}
	if cfg.ClaheClipLimit, err = getFloat("CLAHE_CLIP_LIMIT", 5.0); err != nil {
		return nil, err
	}
	if cfg.ClaheTileGrid, err = getInt("CLAHE_TILE_GRID", 8); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет согласованность настроек.
func (c *Config) Validate() error {
	var errs []error
	if c.ClaheClipLimit <= 0 {
		errs = append(errs, fmt.Errorf("CLAHE_CLIP_LIMIT must be positive, got %v", c.ClaheClipLimit))
	}
	if c.ClaheTileGrid < 1 {
		errs = append(errs, fmt.Errorf("CLAHE_TILE_GRID must be positive, got %d", c.ClaheTileGrid))
	}
	if c.MinioEndpoint != "" && c.MinioBucket == "" {
		errs = append(errs, errors.New("MINIO_BUCKET is required with MINIO_ENDPOINT"))
	}
	return errors.Join(errs...)
}

func (c *Config) HTTPEnabled() bool {
	return c.HTTPAddr != "" && c.HTTPAddr != HTTPDisabled
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.AppEnv, "development")
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s=%q: %w", key, raw, err)
	}
	return v, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s=%q: %w", key, raw, err)
	}
	return v, nil
}

func getBool(key string, fallback bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s=%q: %w", key, raw, err)
	}
	return v, nil
}
