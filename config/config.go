package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	App struct {
		Env         string `env:"APP_ENV" envDefault:"development"`
		Port        string `env:"PORT"    envDefault:"8088"`
		FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
	}
	DB struct {
		Host     string `env:"DB_HOST"     envDefault:"localhost"`
		Port     string `env:"DB_PORT"     envDefault:"5432"`
		User     string `env:"DB_USER"     envDefault:"postgres"`
		Password string `env:"DB_PASSWORD" envDefault:"password"`
		Name     string `env:"DB_NAME"     envDefault:"bracket_db"`
		SSLMode  string `env:"DB_SSLMODE"  envDefault:"disable"`
	}
	Broadcast struct {
		Enabled       bool `env:"BROADCAST_ENABLED"    envDefault:"true"`
		QueueSize     int  `env:"BROADCAST_QUEUE_SIZE" envDefault:"256"`
		RetryInterval int  `env:"SSE_RETRY_MS"         envDefault:"3000"`
	}
	Organizer struct {
		TokenSecret   string `env:"ORGANIZER_TOKEN_SECRET"    envDefault:""`
		TokenRequired bool   `env:"ORGANIZER_TOKEN_REQUIRED"  envDefault:"false"`
		TokenTTLHours int    `env:"ORGANIZER_TOKEN_TTL_HOURS" envDefault:"72"`
	}
	Log struct {
		Level  string `env:"LOG_LEVEL"  envDefault:"info"`
		Format string `env:"LOG_FORMAT" envDefault:"text"`
	}
}

// Global DB instance, accessible after ConnectDB() is called via Initialize.
var DB *gorm.DB

// Global AppConfig instance, accessible after LoadConfig() is called via Initialize.
var appConfig *Config
var once sync.Once

// LoadConfig loads configuration from the environment, reading .env first when present.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading, relying on system environment variables.")
	}

	cfg := &Config{}

	// --- App Configuration ---
	cfg.App.Env = getEnv("APP_ENV", "development")
	cfg.App.Port = getEnv("PORT", "8088")
	cfg.App.FrontendURL = getEnv("FRONTEND_URL", "http://localhost:3000")

	// --- Database Configuration ---
	cfg.DB.Host = getEnv("DB_HOST", "localhost")
	cfg.DB.Port = getEnv("DB_PORT", "5432")
	cfg.DB.User = getEnv("DB_USER", "postgres")
	cfg.DB.Password = getEnv("DB_PASSWORD", "password")
	cfg.DB.Name = getEnv("DB_NAME", "bracket_db")
	cfg.DB.SSLMode = getEnv("DB_SSLMODE", "disable")

	// --- Broadcast Configuration ---
	var err error
	cfg.Broadcast.Enabled, err = getEnvAsBool("BROADCAST_ENABLED", true)
	if err != nil {
		return nil, fmt.Errorf("invalid BROADCAST_ENABLED: %w", err)
	}
	cfg.Broadcast.QueueSize, err = getEnvAsInt("BROADCAST_QUEUE_SIZE", 256)
	if err != nil {
		return nil, fmt.Errorf("invalid BROADCAST_QUEUE_SIZE: %w", err)
	}
	cfg.Broadcast.RetryInterval, err = getEnvAsInt("SSE_RETRY_MS", 3000)
	if err != nil {
		return nil, fmt.Errorf("invalid SSE_RETRY_MS: %w", err)
	}

	// --- Organizer Token Configuration ---
	cfg.Organizer.TokenSecret = getEnv("ORGANIZER_TOKEN_SECRET", "")
	cfg.Organizer.TokenRequired, err = getEnvAsBool("ORGANIZER_TOKEN_REQUIRED", false)
	if err != nil {
		return nil, fmt.Errorf("invalid ORGANIZER_TOKEN_REQUIRED: %w", err)
	}
	cfg.Organizer.TokenTTLHours, err = getEnvAsInt("ORGANIZER_TOKEN_TTL_HOURS", 72)
	if err != nil {
		return nil, fmt.Errorf("invalid ORGANIZER_TOKEN_TTL_HOURS: %w", err)
	}
	if cfg.Organizer.TokenRequired && cfg.Organizer.TokenSecret == "" {
		return nil, fmt.Errorf("ORGANIZER_TOKEN_REQUIRED is set but ORGANIZER_TOKEN_SECRET is empty")
	}

	// --- Logging Configuration ---
	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "text")

	if cfg.DB.Password == "password" && cfg.App.Env == "production" {
		log.Println("WARNING: Using default DB password in production. Please set DB_PASSWORD environment variable.")
	}

	appConfig = cfg
	return cfg, nil
}

// ConnectDB establishes a connection to the database using the provided configuration.
// It sets the global DB variable.
func ConnectDB(dbCfg Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		dbCfg.DB.Host,
		dbCfg.DB.User,
		dbCfg.DB.Password,
		dbCfg.DB.Name,
		dbCfg.DB.Port,
		dbCfg.DB.SSLMode,
	)

	gormConfig := &gorm.Config{}
	if dbCfg.App.Env == "development" {
		gormConfig.Logger = logger.Default.LogMode(logger.Info) // Log SQL queries in development
	} else {
		gormConfig.Logger = logger.Default.LogMode(logger.Silent)
	}

	gormDB, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	DB = gormDB
	log.Println("Successfully connected to database!")
	return gormDB, nil
}

// NewLogger builds the application logger from the Log section.
// Unknown levels fall back to info.
func NewLogger(cfg Config) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if strings.EqualFold(cfg.Log.Format, "json") {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return l
}

// Initialize loads all configurations and connects to the database.
// This should be called once at the start of the application.
func Initialize() error {
	var loadErr error
	once.Do(func() {
		loadedCfg, err := LoadConfig()
		if err != nil {
			loadErr = fmt.Errorf("failed to load configuration: %w", err)
			return
		}
		appConfig = loadedCfg

		_, err = ConnectDB(*appConfig)
		if err != nil {
			loadErr = fmt.Errorf("failed to connect to database during initialization: %w", err)
			return
		}
	})
	return loadErr
}

// GetConfig returns the loaded application configuration.
// It exits if the configuration has not been loaded yet.
func GetConfig() *Config {
	if appConfig == nil {
		log.Fatal("Configuration not loaded. Call config.Initialize() first.")
	}
	return appConfig
}

// Helper function to get an environment variable or return a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// Helper function to get an environment variable as an integer or return a default value.
func getEnvAsInt(key string, fallback int) (int, error) {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return fallback, fmt.Errorf("env var %s: expected integer, got '%s'", key, valueStr)
	}
	return value, nil
}

func getEnvAsBool(key string, fallback bool) (bool, error) {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback, nil
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return fallback, fmt.Errorf("env var %s: expected boolean, got '%s'", key, valueStr)
	}
	return value, nil
}
