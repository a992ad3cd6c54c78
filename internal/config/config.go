package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config stores the application configuration.
type Config struct {
	DiscordToken string
	TracksDir    string

	DBHost     string
	DBPort     string
	DBName     string
	DBLogin    string
	DBPassword string

	SecretPath string

	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int

	// EnvFileLoaded reports whether a .env file was found. Load runs before
	// the logger exists, so the caller logs the notice.
	EnvFileLoaded bool
}

// dbSecret mirrors the optional db.secret.json file carrying Mongo
// credentials. The file is not required; without it the connection is
// unauthenticated.
type dbSecret struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// Load reads configuration from environment variables (via .env file when
// present) and the optional secret file.
func Load() (*Config, error) {
	envFileLoaded := godotenv.Load() == nil

	cfg := &Config{
		EnvFileLoaded: envFileLoaded,
		DiscordToken:  os.Getenv("DISCORD_TOKEN"),
		TracksDir:     getEnv("TRACKS_DIR", "tracks"),
		DBHost:        getEnv("DB_HOST", "127.0.0.1"),
		DBPort:        getEnv("DB_PORT", "27017"),
		DBName:        getEnv("DB_NAME", "miku-bot"),
		SecretPath:    getEnv("DB_SECRET_PATH", "db.secret.json"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogPath:       getEnv("LOG_PATH", ""),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 100),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 3),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 28),
	}

	if cfg.DiscordToken == "" {
		return nil, fmt.Errorf("DISCORD_TOKEN is required")
	}

	if err := cfg.loadSecret(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadSecret() error {
	data, err := os.ReadFile(c.SecretPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read secret file %s: %w", c.SecretPath, err)
	}

	var secret dbSecret
	if err := json.Unmarshal(data, &secret); err != nil {
		return fmt.Errorf("failed to parse secret file %s: %w", c.SecretPath, err)
	}

	c.DBLogin = secret.Login
	c.DBPassword = secret.Password
	return nil
}

// MongoURI builds the connection string, including credentials only when
// the secret file supplied both login and password.
func (c *Config) MongoURI() string {
	auth := fmt.Sprintf("%s:%s", c.DBHost, c.DBPort)

	if c.DBLogin != "" && c.DBPassword != "" {
		auth = fmt.Sprintf("%s:%s@%s", c.DBLogin, c.DBPassword, auth)
	}

	return fmt.Sprintf("mongodb://%s/%s", auth, c.DBName)
}
