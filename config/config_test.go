package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"OPENAI_API_KEY", "GMAIL_CREDENTIALS_FILE", "GMAIL_TOKEN_FILE",
		"MAX_EMAILS", "EMAIL_QUERY", "SUMMARY_MAX_LENGTH", "AI_MODEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	assert.Equal(t, "", cfg.APIKey)
	assert.Equal(t, DefaultCredentialsFile, cfg.CredentialsFile)
	assert.Equal(t, DefaultTokenFile, cfg.TokenFile)
	assert.Equal(t, DefaultMaxEmails, cfg.MaxEmails)
	assert.Equal(t, "", cfg.Query)
	assert.Equal(t, DefaultSummaryWords, cfg.SummaryWords)
	assert.Equal(t, DefaultModel, cfg.Model)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("GMAIL_CREDENTIALS_FILE", "/tmp/creds.json")
	t.Setenv("GMAIL_TOKEN_FILE", "/tmp/tok.json")
	t.Setenv("MAX_EMAILS", "25")
	t.Setenv("EMAIL_QUERY", "is:unread")
	t.Setenv("SUMMARY_MAX_LENGTH", "80")
	t.Setenv("AI_MODEL", "gpt-4o-mini")

	cfg := Load()

	assert.Equal(t, "sk-test", cfg.APIKey)
	assert.Equal(t, "/tmp/creds.json", cfg.CredentialsFile)
	assert.Equal(t, "/tmp/tok.json", cfg.TokenFile)
	assert.Equal(t, 25, cfg.MaxEmails)
	assert.Equal(t, "is:unread", cfg.Query)
	assert.Equal(t, 80, cfg.SummaryWords)
	assert.Equal(t, "gpt-4o-mini", cfg.Model)
}

func TestLoadNonNumericFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("MAX_EMAILS", "lots")
	t.Setenv("SUMMARY_MAX_LENGTH", "3.5")

	cfg := Load()

	assert.Equal(t, DefaultMaxEmails, cfg.MaxEmails)
	assert.Equal(t, DefaultSummaryWords, cfg.SummaryWords)
}

func TestValidateRequiresAPIKey(t *testing.T) {
	clearEnv(t)
	cfg := Load()

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestValidateAcceptsMissingCredentialsFile(t *testing.T) {
	// A cached token can carry the run, so a missing secrets file is
	// only a warning at this stage.
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("GMAIL_CREDENTIALS_FILE", "/nonexistent/credentials.json")

	cfg := Load()
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsNonPositiveCounts(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg := Load()
	cfg.MaxEmails = 0
	assert.Error(t, cfg.Validate())

	cfg = Load()
	cfg.SummaryWords = -1
	assert.Error(t, cfg.Validate())
}
