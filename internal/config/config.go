package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration. It is loaded once at startup and
// passed by pointer; nothing mutates it afterwards.
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Admin     AdminConfig
	MinIO     MinIOConfig
	Upload    UploadConfig
	SMTP      SMTPConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	APIPrefix    string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret   string
	TokenTTL time.Duration
}

// AdminConfig is the single admin identity allowed to mutate content.
type AdminConfig struct {
	Email    string
	Password string
	Name     string
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	PublicURL string
}

// UploadConfig configures the local-disk fallback used when MinIO is not set.
type UploadConfig struct {
	Dir       string
	URLPrefix string
}

type SMTPConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	From      string
	Recipient string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RateLimitConfig struct {
	Enabled       bool
	RPS           float64
	Burst         int
	UseRedis      bool
	WindowSeconds int
}

// LoadConfig loads configuration from environment variables and an optional .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "5000")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_ENVIRONMENT", "development")
	v.SetDefault("API_PREFIX", "/api")
	v.SetDefault("MONGODB_DATABASE", "portfolio")
	v.SetDefault("MONGODB_TIMEOUT", 10)
	v.SetDefault("JWT_TTL_HOURS", 24)
	v.SetDefault("ADMIN_NAME", "Admin")
	v.SetDefault("MINIO_BUCKET", "portfolio")
	v.SetDefault("UPLOAD_DIR", "./uploads")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_ENABLED", true)
	v.SetDefault("RATE_LIMIT_RPS", 0.2)
	v.SetDefault("RATE_LIMIT_BURST", 5)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)

	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetString("SERVER_PORT"),
			Host:         v.GetString("SERVER_HOST"),
			Environment:  v.GetString("SERVER_ENVIRONMENT"),
			APIPrefix:    "/" + strings.Trim(v.GetString("API_PREFIX"), "/"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		MongoDB: MongoDBConfig{
			URI:      v.GetString("MONGODB_URI"),
			Database: v.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(v.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       0,
		},
		JWT: JWTConfig{
			Secret:   v.GetString("JWT_SECRET"),
			TokenTTL: time.Duration(v.GetInt("JWT_TTL_HOURS")) * time.Hour,
		},
		Admin: AdminConfig{
			Email:    v.GetString("ADMIN_EMAIL"),
			Password: v.GetString("ADMIN_PASSWORD"),
			Name:     v.GetString("ADMIN_NAME"),
		},
		MinIO: MinIOConfig{
			Endpoint:  v.GetString("MINIO_ENDPOINT"),
			AccessKey: v.GetString("MINIO_ACCESS_KEY"),
			SecretKey: v.GetString("MINIO_SECRET_KEY"),
			UseSSL:    v.GetBool("MINIO_USE_SSL"),
			Bucket:    v.GetString("MINIO_BUCKET"),
			PublicURL: strings.TrimRight(v.GetString("MINIO_PUBLIC_URL"), "/"),
		},
		Upload: UploadConfig{
			Dir:       v.GetString("UPLOAD_DIR"),
			URLPrefix: "/uploads",
		},
		SMTP: SMTPConfig{
			Host:      v.GetString("SMTP_HOST"),
			Port:      v.GetInt("SMTP_PORT"),
			User:      v.GetString("SMTP_USER"),
			Password:  v.GetString("SMTP_PASSWORD"),
			From:      v.GetString("SMTP_FROM"),
			Recipient: v.GetString("CONTACT_RECIPIENT"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ORIGINS")),
		},
		RateLimit: RateLimitConfig{
			Enabled:       v.GetBool("RATE_LIMIT_ENABLED"),
			RPS:           v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         v.GetInt("RATE_LIMIT_BURST"),
			UseRedis:      v.GetBool("RATE_LIMIT_USE_REDIS"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
	}
	if cfg.SMTP.From == "" {
		cfg.SMTP.From = cfg.SMTP.User
	}
	if cfg.SMTP.Recipient == "" {
		cfg.SMTP.Recipient = cfg.Admin.Email
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.Admin.Email == "" || c.Admin.Password == "" {
		return errors.New("ADMIN_EMAIL and ADMIN_PASSWORD are required")
	}
	if c.JWT.TokenTTL <= 0 {
		return errors.New("JWT_TTL_HOURS must be positive")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
