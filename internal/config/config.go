package config

import (
	"os"
	"strconv"
	"time"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds settings for the optional object storage archive of uploaded PDFs.
// An empty Endpoint disables the archive.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Enabled reports whether uploads should be mirrored to object storage.
func (c MinIOConfig) Enabled() bool {
	return c.Endpoint != ""
}

// InferenceConfig describes the hosted model endpoints used for summarization and question answering.
type InferenceConfig struct {
	BaseURL            string
	APIToken           string
	SummarizationModel string
	QAModel            string
	SummaryMinTokens   int
	SummaryMaxTokens   int
	// TimeoutSec of 0 leaves inference calls unbounded.
	TimeoutSec   int
	WaitForModel bool
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	Port            string
	Timezone        string
	LogLevel        string
	BodyLimitMB     int
	UploadDir       string
	CORSAllowOrigin string
	Database        DatabaseConfig
	MinIO           MinIOConfig
	Inference       InferenceConfig
}

// Location resolves Timezone, falling back to UTC when it is unknown.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		Port:            getEnv("PORT", "8000"),
		Timezone:        getEnv("APP_TIMEZONE", "UTC"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		BodyLimitMB:     getEnvInt("BODY_LIMIT_MB", 50),
		UploadDir:       getEnv("UPLOAD_DIR", "./uploaded_pdfs"),
		CORSAllowOrigin: getEnv("CORS_ALLOW_ORIGIN", "http://localhost:3000"),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Inference: LoadInference(),
	}
}

// LoadInference reads only the inference settings. The analysis CLI needs nothing else.
func LoadInference() InferenceConfig {
	return InferenceConfig{
		BaseURL:            getEnv("INFERENCE_BASE_URL", "https://api-inference.huggingface.co"),
		APIToken:           getEnv("INFERENCE_API_TOKEN", ""),
		SummarizationModel: getEnv("INFERENCE_SUMMARIZATION_MODEL", "facebook/bart-large-cnn"),
		QAModel:            getEnv("INFERENCE_QA_MODEL", "distilbert/distilbert-base-cased-distilled-squad"),
		SummaryMinTokens:   getEnvInt("INFERENCE_SUMMARY_MIN_TOKENS", 30),
		SummaryMaxTokens:   getEnvInt("INFERENCE_SUMMARY_MAX_TOKENS", 100),
		TimeoutSec:         getEnvInt("INFERENCE_TIMEOUT_SEC", 0),
		WaitForModel:       getEnvBool("INFERENCE_WAIT_FOR_MODEL", true),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
