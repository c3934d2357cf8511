// Package config loads application configuration from environment variables.
package config

import "os"

// Config holds the application configuration loaded from environment variables.
type Config struct {
	// GeminiAPIKey is the fallback credential, used only while no key has
	// been saved through the GUI or API.
	GeminiAPIKey string
	// SecretKey is an optional passphrase; when set, stored credentials are
	// encrypted at rest with a key derived from it.
	SecretKey  string
	ListenAddr string
	DBPath     string
}

// HasGeminiAPIKey returns true when a fallback API key was provided through
// the environment.
func (c *Config) HasGeminiAPIKey() bool {
	return c.GeminiAPIKey != ""
}

// HasSecretKey returns true when at-rest encryption is configured.
func (c *Config) HasSecretKey() bool {
	return c.SecretKey != ""
}

// Load reads configuration from environment variables and returns a Config.
// All variables are optional. CONTACTTRIAGE_GEMINI_API_KEY and
// CONTACTTRIAGE_SECRET_KEY default to empty; CONTACTTRIAGE_LISTEN_ADDR
// defaults to 127.0.0.1:8080 and CONTACTTRIAGE_DB_PATH to contacttriage.db.
func Load() (*Config, error) {
	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("CONTACTTRIAGE_LISTEN_ADDR"); ok && v != "" {
		listenAddr = v
	}

	dbPath := "contacttriage.db"
	if v, ok := os.LookupEnv("CONTACTTRIAGE_DB_PATH"); ok && v != "" {
		dbPath = v
	}

	return &Config{
		GeminiAPIKey: os.Getenv("CONTACTTRIAGE_GEMINI_API_KEY"),
		SecretKey:    os.Getenv("CONTACTTRIAGE_SECRET_KEY"),
		ListenAddr:   listenAddr,
		DBPath:       dbPath,
	}, nil
}
