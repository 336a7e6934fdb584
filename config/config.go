package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Blob     BlobConfig
	OpenAI   OpenAIConfig
	RAG      RAGConfig
	Auth     AuthConfig
	Services ServicesConfig
	App      AppConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	Name      string
	VectorDSN string // separate pgvector database; falls back to the DB_* settings
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type BlobConfig struct {
	Bucket    string
	Region    string
	Endpoint  string // optional, e.g. LocalStack
	AccessKey string // optional, static credentials for non-AWS endpoints
	SecretKey string
	UploadDir string // local fallback when Bucket is empty
}

type OpenAIConfig struct {
	APIKey             string
	EmbeddingModel     string
	EmbeddingDimension int
	LLMModel           string
}

type RAGConfig struct {
	ChunkSize    int
	ChunkOverlap int
	TopK         int
	IndexTimeout time.Duration
	QueryTimeout time.Duration
}

type AuthConfig struct {
	ServiceToken        string
	APIKey              string
	Disabled            bool
	FirebaseCredentials string
}

type ServicesConfig struct {
	DocServiceURL string
	RAGServiceURL string
	MetricsURL    string
}

type AppConfig struct {
	Environment string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:      getEnv("DB_HOST", "localhost"),
			Port:      getEnvAsInt("DB_PORT", 5432),
			User:      getEnv("DB_USER", "postgres"),
			Password:  getEnv("DB_PASSWORD", ""),
			Name:      getEnv("DB_NAME", "docqa"),
			VectorDSN: getEnv("VECTOR_DB_DSN", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Blob: BlobConfig{
			Bucket:    getEnv("S3_BUCKET", ""),
			Region:    getEnv("AWS_REGION", "us-east-1"),
			Endpoint:  getEnv("S3_ENDPOINT", ""),
			AccessKey: getEnv("S3_ACCESS_KEY", ""),
			SecretKey: getEnv("S3_SECRET_KEY", ""),
			UploadDir: getEnv("UPLOAD_DIR", "./uploads"),
		},
		OpenAI: OpenAIConfig{
			APIKey:             getEnv("OPENAI_API_KEY", ""),
			EmbeddingModel:     getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
			EmbeddingDimension: getEnvAsInt("EMBEDDING_DIMENSION", 1536),
			LLMModel:           getEnv("LLM_MODEL", "gpt-4o-mini"),
		},
		RAG: RAGConfig{
			ChunkSize:    getEnvAsInt("CHUNK_SIZE", 500),
			ChunkOverlap: getEnvAsInt("CHUNK_OVERLAP", 50),
			TopK:         getEnvAsInt("TOP_K", 5),
			IndexTimeout: getEnvAsDuration("INDEX_TIMEOUT", 30*time.Second),
			QueryTimeout: getEnvAsDuration("QUERY_TIMEOUT", 60*time.Second),
		},
		Auth: AuthConfig{
			ServiceToken:        getEnv("SERVICE_TOKEN", ""),
			APIKey:              getEnv("API_KEY", ""),
			Disabled:            getEnvAsBool("AUTH_DISABLED", false),
			FirebaseCredentials: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		},
		Services: ServicesConfig{
			DocServiceURL: getEnv("DOC_SERVICE_URL", "http://localhost:8001"),
			RAGServiceURL: getEnv("RAG_SERVICE_URL", "http://localhost:8002"),
			MetricsURL:    getEnv("METRICS_URL", "http://localhost:8003/metrics"),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if !c.Auth.Disabled && c.Auth.ServiceToken == "" {
		return fmt.Errorf("SERVICE_TOKEN is required unless AUTH_DISABLED=true")
	}

	if c.RAG.ChunkOverlap >= c.RAG.ChunkSize {
		return fmt.Errorf("CHUNK_OVERLAP must be smaller than CHUNK_SIZE")
	}

	return nil
}

// ValidateRAG checks the settings only the RAG service needs at startup.
func (c *Config) ValidateRAG() error {
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.RAG.TopK <= 0 {
		return fmt.Errorf("TOP_K must be positive")
	}
	return nil
}

// ValidateGateway checks the settings only the gateway needs at startup.
func (c *Config) ValidateGateway() error {
	if !c.Auth.Disabled && c.Auth.APIKey == "" && c.Auth.FirebaseCredentials == "" {
		return fmt.Errorf("API_KEY or FIREBASE_CREDENTIALS_PATH is required unless AUTH_DISABLED=true")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean for %s, using default: %t", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}
