package config

import (
	"errors"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	MongoDB  MongoDBConfig
	JWT      JWTConfig
	Token    TokenConfig
	Admin    AdminConfig
	Storage  StorageConfig
	Import   ImportConfig
	Store    StoreConfig
	LogLevel string
	Env      string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	AllowedHosts []string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// JWTConfig holds configuration for admin session tokens
type JWTConfig struct {
	Secret    string
	ExpiresIn int
}

// TokenConfig holds the secret used to seal upload tokens
type TokenConfig struct {
	SecretKey string
}

// AdminConfig holds the credentials seeded when no admin account exists
type AdminConfig struct {
	Username string
	Password string
}

// StorageConfig holds blob storage configuration for CNIC images
type StorageConfig struct {
	Bucket        string
	PublicBaseURL string
	MaxUploadSize int64
}

// ImportConfig bounds the unit of work of a code import
type ImportConfig struct {
	BatchSize int
}

// StoreConfig selects the document store backend ("mongodb" or "memory")
type StoreConfig struct {
	Driver string
}

// Load loads configuration from a .env file, an optional config file and environment variables.
// path is an extra directory searched for config.yaml.
func Load(path string) (*Config, error) {
	// A missing .env is fine; the process environment is used as is.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if path != "" {
		v.AddConfigPath(path)
	}
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports missing configuration the server cannot run without
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	if c.Token.SecretKey == "" {
		return errors.New("TOKEN_SECRETKEY is not set")
	}
	if c.Store.Driver != "mongodb" && c.Store.Driver != "memory" {
		return errors.New("STORE_DRIVER must be mongodb or memory")
	}
	return nil
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// setDefaults sets default values for configuration.
// Every key needs a default so AutomaticEnv can resolve it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("Server.Port", "4000")
	v.SetDefault("Server.AllowedHosts", []string{"http://localhost:5173"})
	v.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	v.SetDefault("MongoDB.Database", "scratchcard")
	v.SetDefault("JWT.Secret", "")
	v.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	v.SetDefault("Token.SecretKey", "")
	v.SetDefault("Admin.Username", "admin")
	v.SetDefault("Admin.Password", "admin123")
	v.SetDefault("Storage.Bucket", "cnic_images")
	v.SetDefault("Storage.PublicBaseURL", "http://localhost:4000")
	v.SetDefault("Storage.MaxUploadSize", 10<<20)
	v.SetDefault("Import.BatchSize", 100)
	v.SetDefault("Store.Driver", "mongodb")
	v.SetDefault("LogLevel", "info")
	v.SetDefault("Env", "development")
}
