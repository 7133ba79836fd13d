package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth. Empty disables authentication.
	EditAPIKey string

	// OpenAI prompt parsing and humanization. An empty key leaves only
	// the rule-based fallback active.
	OpenAIAPIKey string
	OpenAIModel  string

	// Upload limits
	MaxUploadBytes int64

	// Working directories
	UploadDir string
	OutputDir string

	// Cleanup
	FileMaxAge time.Duration

	// Heading heuristics
	DefaultFontSize  float64
	HeadingSizeRatio float64

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8080"),

		EditAPIKey: os.Getenv("PDFEDIT_API_KEY"),

		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:  envOr("OPENAI_MODEL", "gpt-3.5-turbo"),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		UploadDir: envOr("UPLOAD_DIR", "uploads"),
		OutputDir: envOr("OUTPUT_DIR", "outputs"),

		FileMaxAge: envDuration("FILE_MAX_AGE", 1*time.Hour),

		DefaultFontSize:  envFloat("DEFAULT_FONT_SIZE", 12),
		HeadingSizeRatio: envFloat("HEADING_SIZE_RATIO", 1.2),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.FileMaxAge <= 0 {
		cfg.FileMaxAge = 1 * time.Hour
	}
	if cfg.DefaultFontSize <= 0 {
		cfg.DefaultFontSize = 12
	}
	if cfg.HeadingSizeRatio <= 1 {
		cfg.HeadingSizeRatio = 1.2
	}

	return cfg
}

func (c Config) Validate() error {
	if c.UploadDir == "" {
		return fmt.Errorf("UPLOAD_DIR is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("OUTPUT_DIR is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
