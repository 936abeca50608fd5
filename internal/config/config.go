package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageCloudinary = "cloudinary"
	StorageMinio      = "minio"
	StorageS3         = "s3"
)

type Config struct {
	Env         string
	Port        string
	LogLevel    string
	FrontendURL string
	JWTSecret   string
	Database    DatabaseConfig
	Admin       AdminConfig
	Storage     StorageConfig
	Redis       RedisConfig
	Kafka       KafkaConfig
	SMTP        SMTPConfig
}

type DatabaseConfig struct {
	URL  string
	Name string
}

// AdminConfig is the single configured administrator credential pair.
type AdminConfig struct {
	Email    string
	Password string
}

type StorageConfig struct {
	Provider   string
	Cloudinary CloudinaryConfig
	Minio      MinioConfig
	S3         S3Config
}

type CloudinaryConfig struct {
	URL       string
	CloudName string
	APIKey    string
	APISecret string
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

type S3Config struct {
	Bucket       string
	Region       string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	PublicURL    string
	UsePathStyle bool
}

type RedisConfig struct {
	URL         string
	LoginLimit  int
	LoginWindow time.Duration
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// LoadConfig reads .env (when present) and the process environment.
func LoadConfig() Config {
	_ = godotenv.Load()

	return Config{
		Env:         getEnv("NODE_ENV", "development"),
		Port:        getEnv("PORT", "5000"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		Database: DatabaseConfig{
			URL:  os.Getenv("DATABASE_URL"),
			Name: getEnv("DATABASE_NAME", "mentorship"),
		},
		Admin: AdminConfig{
			Email:    os.Getenv("ADMIN_EMAIL"),
			Password: os.Getenv("ADMIN_PASSWORD"),
		},
		Storage: StorageConfig{
			Provider: strings.ToLower(getEnv("STORAGE_PROVIDER", StorageCloudinary)),
			Cloudinary: CloudinaryConfig{
				URL:       os.Getenv("CLOUDINARY_URL"),
				CloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
				APIKey:    os.Getenv("CLOUDINARY_API_KEY"),
				APISecret: os.Getenv("CLOUDINARY_API_SECRET"),
			},
			Minio: MinioConfig{
				Endpoint:  os.Getenv("MINIO_ENDPOINT"),
				AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
				SecretKey: os.Getenv("MINIO_SECRET_KEY"),
				Bucket:    getEnv("MINIO_BUCKET", "mentorship"),
				UseSSL:    getEnvBool("MINIO_USE_SSL", false),
				PublicURL: os.Getenv("MINIO_PUBLIC_URL"),
			},
			S3: S3Config{
				Bucket:       os.Getenv("S3_BUCKET"),
				Region:       getEnv("S3_REGION", "us-east-1"),
				Endpoint:     os.Getenv("S3_ENDPOINT"),
				AccessKey:    os.Getenv("S3_ACCESS_KEY"),
				SecretKey:    os.Getenv("S3_SECRET_KEY"),
				PublicURL:    os.Getenv("S3_PUBLIC_URL"),
				UsePathStyle: getEnvBool("S3_USE_PATH_STYLE", false),
			},
		},
		Redis: RedisConfig{
			URL:         os.Getenv("REDIS_URL"),
			LoginLimit:  getEnvInt("LOGIN_RATE_LIMIT", 10),
			LoginWindow: getEnvDuration("LOGIN_RATE_WINDOW", 15*time.Minute),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:   getEnv("KAFKA_TOPIC", "mentorship.events"),
		},
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnvInt("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("SMTP_FROM"),
		},
	}
}

// MissingError lists every required key that is unset.
type MissingError struct {
	Keys []string
}

func (e *MissingError) Error() string {
	return "missing required configuration: " + strings.Join(e.Keys, ", ")
}

// Validate checks the keys the server cannot start without. Object-storage
// credentials are only required for the selected provider.
func (c Config) Validate() error {
	var missing []string
	require := func(key, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, key)
		}
	}

	require("DATABASE_URL", c.Database.URL)
	require("JWT_SECRET", c.JWTSecret)
	require("ADMIN_EMAIL", c.Admin.Email)
	require("ADMIN_PASSWORD", c.Admin.Password)

	switch c.Storage.Provider {
	case StorageCloudinary:
		if c.Storage.Cloudinary.URL == "" {
			require("CLOUDINARY_CLOUD_NAME", c.Storage.Cloudinary.CloudName)
			require("CLOUDINARY_API_KEY", c.Storage.Cloudinary.APIKey)
			require("CLOUDINARY_API_SECRET", c.Storage.Cloudinary.APISecret)
		}
	case StorageMinio:
		require("MINIO_ENDPOINT", c.Storage.Minio.Endpoint)
		require("MINIO_ACCESS_KEY", c.Storage.Minio.AccessKey)
		require("MINIO_SECRET_KEY", c.Storage.Minio.SecretKey)
		require("MINIO_BUCKET", c.Storage.Minio.Bucket)
	case StorageS3:
		require("S3_BUCKET", c.Storage.S3.Bucket)
	default:
		return fmt.Errorf("unknown STORAGE_PROVIDER %q", c.Storage.Provider)
	}

	if len(missing) > 0 {
		return &MissingError{Keys: missing}
	}
	return nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
