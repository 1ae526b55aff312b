package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Redis     RedisConfig
	Storage   StorageConfig
	OAuth     OAuthConfig
	Provision ProvisionConfig
}

type AppConfig struct {
	AppName       string
	Environment   string
	HTTPPort      string
	MigrationsDir string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration
}

type JWTConfig struct {
	AccessSecret     string
	RefreshSecret    string
	AccessExpiresIn  time.Duration
	RefreshExpiresIn time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

type StorageConfig struct {
	Endpoint     string
	Region       string
	AccessKeyID  string
	SecretKey    string
	AvatarBucket string
	LogoBucket   string
	PublicHost   string
}

type OAuthConfig struct {
	GitHubClientID       string
	GitHubClientSecret   string
	LinkedInClientID     string
	LinkedInClientSecret string
	RedirectBaseURL      string
}

// ProvisionConfig controls retry and settling behavior when creating
// profile rows against the permission layer.
type ProvisionConfig struct {
	ProfileInsertAttempts int
	RetryDelay            time.Duration
	SettleDelay           time.Duration
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

func Load() (Config, error) {
	cfg := Config{}

	var missing []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key string) string {
		return strings.TrimSpace(os.Getenv(key))
	}

	cfg.App = AppConfig{
		AppName:       req("APP_NAME"),
		Environment:   req("APP_ENV"),
		HTTPPort:      req("HTTP_PORT"),
		MigrationsDir: opt("MIGRATIONS_DIR"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:     opt("DB_HOST"),
		DBPort:     opt("DB_PORT"),
		DBName:     opt("DB_NAME"),
		DBUser:     opt("DB_USER"),
		DBPassword: opt("DB_PASSWORD"),
		DBSSLMode:  opt("DB_SSL_MODE"),

		ConnectTimeout:        durationEnv("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:          int32Env("DB_POOL_MAX_CONNS", 0),
		PoolMinConns:          int32Env("DB_POOL_MIN_CONNS", 0),
		PoolMaxConnLifetime:   durationEnv("DB_POOL_MAX_CONN_LIFETIME", 0),
		PoolMaxConnIdleTime:   durationEnv("DB_POOL_MAX_CONN_IDLE_TIME", 0),
		PoolHealthCheckPeriod: durationEnv("DB_POOL_HEALTH_CHECK_PERIOD", 0),
	}

	cfg.JWT = JWTConfig{
		AccessSecret:     req("JWT_ACCESS_SECRET"),
		RefreshSecret:    req("JWT_REFRESH_SECRET"),
		AccessExpiresIn:  durationEnv("JWT_ACCESS_EXPIRES_IN", 15*time.Minute),
		RefreshExpiresIn: durationEnv("JWT_REFRESH_EXPIRES_IN", 7*24*time.Hour),
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST"),
		Port:     opt("REDIS_PORT"),
		Password: opt("REDIS_PASSWORD"),
	}

	cfg.Storage = StorageConfig{
		Endpoint:     opt("STORAGE_ENDPOINT"),
		Region:       opt("STORAGE_REGION"),
		AccessKeyID:  opt("STORAGE_ACCESS_KEY_ID"),
		SecretKey:    opt("STORAGE_SECRET_KEY"),
		AvatarBucket: opt("STORAGE_AVATAR_BUCKET"),
		LogoBucket:   opt("STORAGE_LOGO_BUCKET"),
		PublicHost:   opt("STORAGE_PUBLIC_HOST"),
	}

	cfg.OAuth = OAuthConfig{
		GitHubClientID:       opt("OAUTH_GITHUB_CLIENT_ID"),
		GitHubClientSecret:   opt("OAUTH_GITHUB_CLIENT_SECRET"),
		LinkedInClientID:     opt("OAUTH_LINKEDIN_CLIENT_ID"),
		LinkedInClientSecret: opt("OAUTH_LINKEDIN_CLIENT_SECRET"),
		RedirectBaseURL:      opt("OAUTH_REDIRECT_BASE_URL"),
	}

	cfg.Provision = ProvisionConfig{
		ProfileInsertAttempts: intEnv("PROVISION_PROFILE_INSERT_ATTEMPTS", 3),
		RetryDelay:            durationEnv("PROVISION_RETRY_DELAY", 500*time.Millisecond),
		SettleDelay:           durationEnv("PROVISION_SETTLE_DELAY", time.Second),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	return cfg, nil
}

func durationEnv(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return def
	}
	return d
}

func intEnv(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func int32Env(key string, def int32) int32 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || v < 0 {
		return def
	}
	return int32(v)
}
