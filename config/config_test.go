package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPEN_AI_API_KEY", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "whisper-1", cfg.STTModel)
	assert.Equal(t, "gpt-4o-mini", cfg.LLMModel)
	assert.InDelta(t, 0.1, cfg.LLMTemperature, 1e-6)
	assert.Equal(t, ":3000", cfg.ListenAddr)
	assert.Equal(t, 25*1024*1024, cfg.BodyLimit())
	assert.Equal(t, "broker-notes.json", filepath.Base(cfg.NotesFile))
	assert.ErrorIs(t, cfg.RequireAPIKey(), ErrMissingAPIKey)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("LLM_MODEL", "gpt-4o")
	t.Setenv("LISTEN_ADDR", ":8080")
	t.Setenv("BODY_LIMIT_MB", "5")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.OpenAIAPIKey)
	assert.Equal(t, "gpt-4o", cfg.LLMModel)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, 5*1024*1024, cfg.BodyLimit())
	assert.NoError(t, cfg.RequireAPIKey())
}

func TestLoad_LegacyAPIKeyName(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPEN_AI_API_KEY", "sk-legacy")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sk-legacy", cfg.OpenAIAPIKey)
}

func TestLoad_ConfigFile(t *testing.T) {
	t.Setenv("LLM_MODEL", "")
	t.Setenv("SERVER_URL", "")
	path := filepath.Join(t.TempDir(), "voicenotes.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm_model: gpt-4.1-mini\nserver_url: http://notes.local:3000\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4.1-mini", cfg.LLMModel)
	assert.Equal(t, "http://notes.local:3000", cfg.ServerURL)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
