package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// ErrMissingAPIKey is returned when no Gemini credential is configured.
// Without a credential the parser cannot operate at all, so callers
// should surface this as a configuration error rather than attempting
// any model call.
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY is not set; get a key from https://aistudio.google.com/app/apikey")

// DefaultModelName is the Gemini model used for statement parsing.
// Override with GEMINI_MODEL, e.g. gemini-1.5-flash on a constrained
// quota.
const DefaultModelName = "gemini-2.5-flash"

// DefaultMaxUploadBytes caps uploaded statement PDFs at 200MB.
const DefaultMaxUploadBytes = 200 << 20

// Config holds runtime configuration for the statement parser.
type Config struct {
	// GeminiAPIKey is the required model-service credential.
	GeminiAPIKey string

	// GeminiModel is the model name used for generation.
	GeminiModel string

	// Port is the HTTP server port.
	Port string

	// MaxUploadBytes limits the size of uploaded PDFs at the HTTP edge.
	MaxUploadBytes int64

	// RepairJSON enables best-effort repair of near-JSON model output
	// before giving up with a parse error. Off by default: a response
	// that is not valid JSON after fence stripping fails the run.
	RepairJSON bool
}

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first if present.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		GeminiModel:    os.Getenv("GEMINI_MODEL"),
		Port:           os.Getenv("PORT"),
		MaxUploadBytes: DefaultMaxUploadBytes,
	}

	if cfg.GeminiModel == "" {
		cfg.GeminiModel = DefaultModelName
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if v := os.Getenv("MAX_UPLOAD_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.MaxUploadBytes = n
		}
	}
	if v := os.Getenv("REPAIR_JSON"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.RepairJSON = b
		}
	}

	return cfg
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.GeminiAPIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}
