// Package config loads the service configuration: a YAML file for
// tunables and environment variables for secrets. A .env file is loaded
// when present so local development does not need exported variables.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full service configuration as decoded from YAML.
type Config struct {
	API struct {
		Port int `yaml:"port"`
	} `yaml:"api"`
	Storage struct {
		// Driver selects the document store: firestore, sqlite or memory.
		Driver     string `yaml:"driver"`
		SQLitePath string `yaml:"sqlitePath"`
	} `yaml:"storage"`
	Cache struct {
		Enabled    bool `yaml:"enabled"`
		TTLSeconds int  `yaml:"ttlSeconds"`
	} `yaml:"cache"`
	Worker struct {
		Count     int `yaml:"count"`
		QueueSize int `yaml:"queueSize"`
	} `yaml:"worker"`
	Spotify struct {
		BaseURL string `yaml:"baseUrl"`
	} `yaml:"spotify"`
}

// Load reads the YAML file at path and applies defaults for anything the
// file leaves unset. Environment secrets are read separately via Env.
func Load(path string) (Config, error) {
	var cfg Config
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() Config {
	var cfg Config
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.API.Port == 0 {
		c.API.Port = 8080
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "sqlite"
	}
	if c.Storage.SQLitePath == "" {
		c.Storage.SQLitePath = "ratify.db"
	}
	if c.Cache.TTLSeconds == 0 {
		c.Cache.TTLSeconds = 300
	}
	if c.Worker.Count == 0 {
		c.Worker.Count = 2
	}
	if c.Worker.QueueSize == 0 {
		c.Worker.QueueSize = 100
	}
	if c.Spotify.BaseURL == "" {
		c.Spotify.BaseURL = "https://api.spotify.com/v1"
	}
}

// Env holds the secrets and deployment settings that never belong in the
// YAML file.
type Env struct {
	SpotifyClientID     string
	SpotifyClientSecret string
	JWTSecret           string
	RedisAddr           string
	FirestoreProjectID  string
}

// LoadEnv reads the environment, after loading a .env file if one exists.
func LoadEnv() Env {
	// Missing .env is fine; real deployments export variables directly.
	_ = godotenv.Load()
	return Env{
		SpotifyClientID:     os.Getenv("SPOTIFY_CLIENT_ID"),
		SpotifyClientSecret: os.Getenv("SPOTIFY_CLIENT_SECRET"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		FirestoreProjectID:  os.Getenv("FIRESTORE_PROJECT_ID"),
	}
}
