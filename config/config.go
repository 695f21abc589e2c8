package config

import (
	"errors"
	"os"
	"strings"

	"armenu-api/models"

	"github.com/caarlos0/env"
	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const defaultJWTSecret = "armenu_dev_secret_change_me"

// Config is read from the environment, optionally seeded from a .env file
type Config struct {
	Port           string `env:"PORT" envDefault:"8080"`
	GinMode        string `env:"GIN_MODE" envDefault:"debug"`
	DatabasePath   string `env:"DATABASE_PATH" envDefault:"armenu.db"`
	JWTSecret      string `env:"JWT_SECRET"`
	JWTTTLHours    int    `env:"JWT_TTL_HOURS" envDefault:"24"`
	PublicBaseURL  string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:5173"`
	StorageRoot    string `env:"STORAGE_ROOT" envDefault:"storage"`
	StorageBaseURL string `env:"STORAGE_BASE_URL" envDefault:"http://localhost:8080/storage"`
	MaxUploadMB    int    `env:"MAX_UPLOAD_MB" envDefault:"50"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat      string `env:"LOG_FORMAT" envDefault:"text"`
	LogFile        string `env:"LOG_FILE"`
}

// Load reads the given .env files (or ./.env) and parses the environment.
// Missing .env files are not an error.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = defaultJWTSecret
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.GinMode == "release" && c.JWTSecret == defaultJWTSecret {
		return errors.New("JWT_SECRET must be set in release mode")
	}
	if c.JWTTTLHours <= 0 {
		return errors.New("JWT_TTL_HOURS must be positive")
	}
	if c.MaxUploadMB <= 0 {
		return errors.New("MAX_UPLOAD_MB must be positive")
	}
	return nil
}

// InitDB opens the sqlite database and migrates all models
func InitDB(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(withForeignKeys(path)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&models.Manager{},
		&models.Restaurant{},
		&models.Product{},
		&models.RestaurantSelection{},
		&models.OrphanedAsset{},
	)
	if err != nil {
		return nil, err
	}

	logrus.WithField("path", path).Info("database connected and migrated")
	return db, nil
}

// withForeignKeys sets the pragma in the DSN so every pooled connection
// enforces ON DELETE CASCADE, not just the first one.
func withForeignKeys(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)"
}
