package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderAnthropic = "anthropic"
	ProviderVertex    = "vertex"
)

type Config struct {
	ServerPort        string
	TesseractDataPath string
	PaddleOCREnabled  bool
	PaddleModelDir    string
	FoodIndexPath     string

	LLMProvider     string
	AnthropicAPIKey string
	AnthropicModel  string
	VertexModel     string
	VertexRegion    string
	LLMMaxTokens    int
	LLMTimeout      time.Duration
	LLMMaxAttempts  int

	GCPProject          string
	StorageBucket       string
	FirestoreCollection string

	MaxChunkSize       int
	MaxWorkers         int
	ExportXLSX         bool
	DownloadTimeout    time.Duration
	DownloadMaxRetries uint64
	MaxFileSize        int64
}

// LoadConfig reads the environment, after loading a .env file when present.
func LoadConfig() *Config {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	return &Config{
		ServerPort:        GetEnv("SERVER_PORT", "8080"),
		TesseractDataPath: GetEnv("TESSDATA_PREFIX", "/usr/share/tesseract-ocr/5/tessdata/"),
		PaddleOCREnabled:  GetEnvBool("PADDLE_OCR_ENABLED", false),
		PaddleModelDir:    GetEnv("PADDLE_MODEL_DIR", "/opt/paddleocr/models/en"),
		FoodIndexPath:     GetEnv("FOOD_INDEX_PATH", "food_index.txt"),

		LLMProvider:     strings.ToLower(GetEnv("LLM_PROVIDER", ProviderAnthropic)),
		AnthropicAPIKey: GetEnv("ANTHROPIC_API_KEY", ""),
		AnthropicModel:  GetEnv("ANTHROPIC_MODEL", "claude-3-7-sonnet-20250219"),
		VertexModel:     GetEnv("VERTEX_MODEL", "gemini-1.5-pro"),
		VertexRegion:    GetEnv("VERTEX_AI_REGION", "us-central1"),
		LLMMaxTokens:    GetEnvInt("LLM_MAX_TOKENS", 20000),
		LLMTimeout:      GetEnvDuration("LLM_TIMEOUT", 5*time.Minute),
		LLMMaxAttempts:  GetEnvInt("LLM_MAX_ATTEMPTS", 3),

		GCPProject:          GetEnv("GCP_PROJECT", ""),
		StorageBucket:       GetEnv("STORAGE_BUCKET", ""),
		FirestoreCollection: GetEnv("FIRESTORE_COLLECTION", "food_data"),

		MaxChunkSize:       GetEnvInt("MAX_CHUNK_SIZE", 8000),
		MaxWorkers:         GetEnvInt("MAX_WORKERS", 4),
		ExportXLSX:         GetEnvBool("EXPORT_XLSX", true),
		DownloadTimeout:    GetEnvDuration("DOWNLOAD_TIMEOUT", 60*time.Second),
		DownloadMaxRetries: uint64(GetEnvInt("DOWNLOAD_MAX_RETRIES", 3)),
		MaxFileSize:        int64(GetEnvInt("MAX_FILE_SIZE", 50*1024*1024)),
	}
}

// Validate reports every missing or inconsistent setting at once.
func (c *Config) Validate() error {
	var errs []error
	switch c.LLMProvider {
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			errs = append(errs, errors.New("ANTHROPIC_API_KEY is required when LLM_PROVIDER=anthropic"))
		}
	case ProviderVertex:
		if c.GCPProject == "" {
			errs = append(errs, errors.New("GCP_PROJECT is required when LLM_PROVIDER=vertex"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown LLM_PROVIDER %q", c.LLMProvider))
	}
	if c.StorageBucket == "" {
		errs = append(errs, errors.New("STORAGE_BUCKET is required"))
	}
	if c.FoodIndexPath == "" {
		errs = append(errs, errors.New("FOOD_INDEX_PATH is required"))
	}
	if c.MaxChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("MAX_CHUNK_SIZE must be positive, got %d", c.MaxChunkSize))
	}
	if c.MaxWorkers <= 0 {
		errs = append(errs, fmt.Errorf("MAX_WORKERS must be positive, got %d", c.MaxWorkers))
	}
	return errors.Join(errs...)
}

// GetEnv is a helper to read an environment variable or return a default value.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func GetEnvInt(key string, fallback int) int {
	raw := GetEnv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Warning: %s=%q is not an integer, using %d", key, raw, fallback)
		return fallback
	}
	return v
}

func GetEnvBool(key string, fallback bool) bool {
	raw := GetEnv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("Warning: %s=%q is not a boolean, using %t", key, raw, fallback)
		return fallback
	}
	return v
}

// GetEnvDuration accepts Go durations ("90s") or a bare number of seconds.
func GetEnvDuration(key string, fallback time.Duration) time.Duration {
	raw := GetEnv(key, "")
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	log.Printf("Warning: %s=%q is not a duration, using %s", key, raw, fallback)
	return fallback
}
