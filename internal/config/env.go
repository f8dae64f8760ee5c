package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries every runtime knob the service needs. It is constructed once
// in main and passed into constructors; nothing reads the environment after
// startup.
type Config struct {
	DatabaseURL string
	SslCertPath string
	Port        string

	// Embedding provider.
	AIAPIKey      string
	EmbedModel    string
	EmbedDim      int
	EmbedInterval time.Duration

	// Chunking.
	ChunkSize        int
	ChunkOverlap     int
	MaxDocumentChars int

	// Optional S3 archive of raw uploads. Empty bucket disables archiving.
	AwsAccessKey string
	AwsSecretKey string
	AwsRegion    string
	BucketName   string

	// Transcript acquisition.
	TranscriptScript string
	FetchTimeout     time.Duration
	BridgeTimeout    time.Duration

	// Batch ingestion fan-out across (item, advisor) pairs.
	BatchWorkers int
}

// LoadConfig loads the environment variables and returns the config.
func LoadConfig() *Config {

	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL: getEnv("DATABASE_URL", ""),
		SslCertPath: getEnv("SSL_CERT_PATH", ""),
		Port:        getEnv("PORT", "8080"),

		AIAPIKey:      getEnv("GEMINI_API_KEY", ""),
		EmbedModel:    getEnv("EMBED_MODEL", "gemini-embedding-001"),
		EmbedDim:      getEnvInt("EMBED_DIM", 768),
		EmbedInterval: getEnvDuration("EMBED_INTERVAL", 100*time.Millisecond),

		ChunkSize:        getEnvInt("CHUNK_SIZE", 1000),
		ChunkOverlap:     getEnvInt("CHUNK_OVERLAP", 200),
		MaxDocumentChars: getEnvInt("MAX_DOCUMENT_CHARS", 2_000_000),

		AwsAccessKey: getEnv("AWS_ACCESS_KEY", ""),
		AwsSecretKey: getEnv("AWS_SECRET_KEY", ""),
		AwsRegion:    getEnv("AWS_REGION", "us-east-2"),
		BucketName:   getEnv("BUCKET_NAME", ""),

		TranscriptScript: getEnv("TRANSCRIPT_SCRIPT", "scripts/get_transcript.py"),
		FetchTimeout:     getEnvDuration("FETCH_TIMEOUT", 10*time.Second),
		BridgeTimeout:    getEnvDuration("BRIDGE_TIMEOUT", 15*time.Second),

		BatchWorkers: getEnvInt("BATCH_WORKERS", 4),
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}

	return cfg
}

// Helper to read environment variables with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("WARN: %s=%q not an int, using default %d", key, v, def)
		return def
	}
	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("WARN: %s=%q not a duration, using default %s", key, v, def)
		return def
	}
	return d
}
