package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      *AppConfig
	Database *DatabaseConfig
	Redis    *RedisConfig
	Security *SecurityConfig
	Storage  *StorageConfig
	Firebase *FirebaseConfig
	Contact  *ContactConfig
}

type AppConfig struct {
	Name        string
	Environment string
	Port        string
	BaseURL     string
	LogLevel    string
	LogFormat   string
	// StoreDriver selects the persistence gateway: "postgres" or "memory".
	StoreDriver string
	DraftTTL    time.Duration
	SeedFleet   bool
}

type DatabaseConfig struct {
	Host            string
	User            string
	Password        string
	Name            string
	Port            string
	SSLMode         string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	// URL is optional; without it drafts, tracking history and in-flight
	// markers are kept in process memory.
	URL string
}

type SecurityConfig struct {
	JWTSecret          string
	AdminTokenTTL      time.Duration
	AdminSecret        string
	FallbackSecret     string
	TransitionLockTTL  time.Duration
	CORSAllowedOrigins []string
}

type StorageConfig struct {
	AWSRegion  string
	AWSKey     string
	AWSSecret  string
	S3Bucket   string
	UploadDir  string
	PublicBase string
}

type FirebaseConfig struct {
	ServiceAccountPath string
	OperatorTopic      string
}

// ContactConfig is the operator contact card published on the site.
type ContactConfig struct {
	Phone     string
	Phone2    string
	WhatsApp  string
	Instagram string
	UPI       string
	Location  string
	Owner     string
}

// Load reads .env when present and builds the configuration from the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	return &Config{
		App:      loadAppConfig(),
		Database: loadDatabaseConfig(),
		Redis:    &RedisConfig{URL: getEnv("REDIS_URL", "")},
		Security: loadSecurityConfig(),
		Storage:  loadStorageConfig(),
		Firebase: &FirebaseConfig{
			ServiceAccountPath: getEnv("FIREBASE_SERVICE_ACCOUNT_PATH", ""),
			OperatorTopic:      getEnv("FIREBASE_OPERATOR_TOPIC", "operators"),
		},
		Contact: loadContactConfig(),
	}, nil
}

func loadAppConfig() *AppConfig {
	return &AppConfig{
		Name:        getEnv("APP_NAME", "Arihant Cabs"),
		Environment: getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
		StoreDriver: getEnv("STORE_DRIVER", "postgres"),
		DraftTTL:    getEnvAsDuration("BOOKING_DRAFT_TTL", 2*time.Hour),
		SeedFleet:   getEnvAsBool("SEED_FLEET", true),
	}
}

func loadDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		Host:            getEnv("DB_HOST", "localhost"),
		User:            getEnv("DB_USER", "postgres"),
		Password:        getEnv("DB_PASSWORD", ""),
		Name:            getEnv("DB_NAME", "cabs"),
		Port:            getEnv("DB_PORT", "5432"),
		SSLMode:         getEnv("DB_SSLMODE", "disable"),
		MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
		MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
		ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour),
	}
}

func loadSecurityConfig() *SecurityConfig {
	return &SecurityConfig{
		JWTSecret:          getEnv("JWT_SECRET", ""),
		AdminTokenTTL:      getEnvAsDuration("ADMIN_TOKEN_TTL", 12*time.Hour),
		AdminSecret:        getEnv("ADMIN_SECRET", ""),
		FallbackSecret:     getEnv("ADMIN_FALLBACK_SECRET", ""),
		TransitionLockTTL:  getEnvAsDuration("TRANSITION_LOCK_TTL", 30*time.Second),
		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}
}

func loadStorageConfig() *StorageConfig {
	return &StorageConfig{
		AWSRegion:  getEnv("AWS_REGION", ""),
		AWSKey:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecret:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		S3Bucket:   getEnv("AWS_S3_BUCKET", ""),
		UploadDir:  getEnv("UPLOAD_DIR", "./uploads"),
		PublicBase: getEnv("BASE_URL", "http://localhost:8080"),
	}
}

func loadContactConfig() *ContactConfig {
	return &ContactConfig{
		Phone:     getEnv("CONTACT_PHONE", "+91 7979852978"),
		Phone2:    getEnv("CONTACT_PHONE2", "+91 7970807245"),
		WhatsApp:  getEnv("CONTACT_WHATSAPP", "917979852978"),
		Instagram: getEnv("CONTACT_INSTAGRAM", "https://instagram.com/arihantcabs"),
		UPI:       getEnv("CONTACT_UPI", "arihantcabs@upi"),
		Location:  getEnv("CONTACT_LOCATION", "Savera Cinema, Barmasia, Giridih, Jharkhand 815301"),
		Owner:     getEnv("CONTACT_OWNER", "Pawan Kumar Dubey"),
	}
}

func (c *StorageConfig) S3Enabled() bool {
	return c.AWSRegion != "" && c.AWSKey != "" && c.AWSSecret != "" && c.S3Bucket != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
