package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Defaults applied when the corresponding environment variable is unset.
const (
	DefaultCredentialsFile = "credentials.json"
	DefaultTokenFile       = "token.json"
	DefaultMaxEmails       = 10
	DefaultSummaryWords    = 150
	DefaultModel           = "gpt-3.5-turbo"
)

// Config holds all settings for a single run. Values are read once at
// startup and never mutated afterwards.
type Config struct {
	// OpenAI API key, required.
	APIKey string

	// Gmail OAuth client secrets and cached token locations.
	CredentialsFile string
	TokenFile       string

	// Fetch settings.
	MaxEmails int
	Query     string // Gmail search query, empty means all messages

	// Summarizer settings.
	SummaryWords int
	Model        string
}

// Load reads configuration from a .env file (if present) and the
// environment. A missing .env file is not an error.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Warn("Failed to load .env file")
	}

	return &Config{
		APIKey:          getEnv("OPENAI_API_KEY", ""),
		CredentialsFile: getEnv("GMAIL_CREDENTIALS_FILE", DefaultCredentialsFile),
		TokenFile:       getEnv("GMAIL_TOKEN_FILE", DefaultTokenFile),
		MaxEmails:       getEnvInt("MAX_EMAILS", DefaultMaxEmails),
		Query:           getEnv("EMAIL_QUERY", ""),
		SummaryWords:    getEnvInt("SUMMARY_MAX_LENGTH", DefaultSummaryWords),
		Model:           getEnv("AI_MODEL", DefaultModel),
	}
}

// Validate checks that required settings are present. A missing client
// secrets file is only a warning here: a previously cached token can still
// carry the run on its own.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY not set; add it to the environment or a .env file")
	}
	if c.MaxEmails <= 0 {
		return fmt.Errorf("MAX_EMAILS must be positive, got %d", c.MaxEmails)
	}
	if c.SummaryWords <= 0 {
		return fmt.Errorf("SUMMARY_MAX_LENGTH must be positive, got %d", c.SummaryWords)
	}
	if _, err := os.Stat(c.CredentialsFile); err != nil {
		logrus.WithField("path", c.CredentialsFile).Warn(
			"Gmail credentials file not found; download it from Google Cloud Console")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		logrus.WithField("key", key).WithField("value", value).Warn("Ignoring non-numeric value")
		return defaultValue
	}
	return n
}
