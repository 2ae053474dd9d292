package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingJWTSecret is returned when no secret is configured and none can
// be fetched from the secrets bucket.
var ErrMissingJWTSecret = errors.New("JWT secret not found in config, environment or secrets bucket")

type Config struct {
	Server struct {
		Port               int      `mapstructure:"port"`
		CorsAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
		CorsAllowedMethods []string `mapstructure:"cors_allowed_methods"`
		CorsAllowedHeaders []string `mapstructure:"cors_allowed_headers"`
	} `mapstructure:"server"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
		Output string `mapstructure:"output"`
	} `mapstructure:"log"`

	Database DatabaseConfig `mapstructure:"database"`

	JWT struct {
		Secret string `mapstructure:"secret"`
		Issuer string `mapstructure:"issuer"`
	} `mapstructure:"jwt"`

	Redis struct {
		Addr     string        `mapstructure:"addr"`
		Password string        `mapstructure:"password"`
		DB       int           `mapstructure:"db"`
		TTL      time.Duration `mapstructure:"ttl"`
	} `mapstructure:"redis"`

	Admin struct {
		Emails []string `mapstructure:"emails"`
	} `mapstructure:"admin"`

	ActivityLog struct {
		FetchLimit int `mapstructure:"fetch_limit"`
		PageSize   int `mapstructure:"page_size"`
	} `mapstructure:"activity_log"`

	Monitoring struct {
		Port int `mapstructure:"port"`
	} `mapstructure:"monitoring"`

	Secrets SecretsConfig `mapstructure:"secrets"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

// ConnectionString returns the pgx connection URL.
func (d DatabaseConfig) ConnectionString() string {
	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslMode)
}

// SecretsConfig points at an S3-compatible bucket holding a backup copy of
// the JWT secret.
type SecretsConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Key       string `mapstructure:"key"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

func (s SecretsConfig) Enabled() bool {
	return s.Bucket != "" && s.AccessKey != "" && s.SecretKey != ""
}

// FetchSecret reads the JWT secret from the secrets bucket. Replaced in tests.
var FetchSecret = fetchSecretFromBucket

// Load reads configs/config.yaml (optional), a .env file (optional) and the
// environment. path overrides the config file location when non-empty.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	if path == "" {
		path = "configs/config.yaml"
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(path)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_allowed_origins", []string{"*"})
	v.SetDefault("server.cors_allowed_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("server.cors_allowed_headers", []string{"Authorization", "Content-Type"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("jwt.issuer", "jobboard-backend")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "jobboard")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("redis.ttl", 30*time.Second)
	v.SetDefault("activity_log.fetch_limit", 200)
	v.SetDefault("activity_log.page_size", 20)
	v.SetDefault("monitoring.port", 9090)
	v.SetDefault("secrets.region", "auto")
	v.SetDefault("secrets.key", "config/jwt_secret.txt")

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	applyEnvOverrides(&cfg)

	if cfg.JWT.Secret == "" || cfg.JWT.Secret == "${JWT_SECRET}" {
		cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	}
	if cfg.JWT.Secret == "" && cfg.Secrets.Enabled() {
		secret, err := FetchSecret(context.Background(), cfg.Secrets)
		if err != nil {
			return nil, fmt.Errorf("fetch JWT secret: %w", err)
		}
		cfg.JWT.Secret = strings.TrimSpace(secret)
	}
	if cfg.JWT.Secret == "" {
		return nil, ErrMissingJWTSecret
	}

	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Database.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil && n > 0 {
			cfg.Database.Port = n
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.Database.User = user
	}
	if pass := os.Getenv("DB_PASSWORD"); pass != "" {
		cfg.Database.Password = pass
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.Database.Name = name
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}
	if pass := os.Getenv("REDIS_PASSWORD"); pass != "" {
		cfg.Redis.Password = pass
	}

	if emails := os.Getenv("ADMIN_EMAILS"); emails != "" {
		cfg.Admin.Emails = splitList(emails)
	}

	if bucket := os.Getenv("SECRETS_BUCKET"); bucket != "" {
		cfg.Secrets.Bucket = bucket
	}
	if endpoint := os.Getenv("SECRETS_ENDPOINT"); endpoint != "" {
		cfg.Secrets.Endpoint = endpoint
	}
	if key := os.Getenv("SECRETS_ACCESS_KEY"); key != "" {
		cfg.Secrets.AccessKey = key
	}
	if key := os.Getenv("SECRETS_SECRET_KEY"); key != "" {
		cfg.Secrets.SecretKey = key
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func fetchSecretFromBucket(ctx context.Context, sc SecretsConfig) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			sc.AccessKey,
			sc.SecretKey,
			"",
		)),
		awsconfig.WithRegion(sc.Region),
	)
	if err != nil {
		return "", fmt.Errorf("configure secrets client: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if sc.Endpoint != "" {
			o.BaseEndpoint = aws.String(sc.Endpoint)
		}
	})

	result, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(sc.Bucket),
		Key:    aws.String(sc.Key),
	})
	if err != nil {
		return "", fmt.Errorf("get %s/%s: %w", sc.Bucket, sc.Key, err)
	}
	defer result.Body.Close()

	secret, err := io.ReadAll(result.Body)
	if err != nil {
		return "", fmt.Errorf("read secret body: %w", err)
	}
	return string(secret), nil
}
