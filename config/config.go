// Package config loads settings from an optional YAML file, a .env file and
// the process environment, in increasing order of precedence.
package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config holds every setting used by the server and the CLI.
type Config struct {
	OpenAIAPIKey   string
	OpenAIBaseURL  string
	STTModel       string
	LLMModel       string
	LLMTemperature float32

	ListenAddr  string
	BodyLimitMB int

	ServerURL string
	NotesFile string

	LogLevel  string
	LogFormat string
}

// ErrMissingAPIKey is returned by RequireAPIKey when no OpenAI key is set.
var ErrMissingAPIKey = errors.New("OPENAI_API_KEY must be set")

const (
	keyAPIKey      = "openai_api_key"
	keyBaseURL     = "openai_base_url"
	keySTTModel    = "stt_model"
	keyLLMModel    = "llm_model"
	keyTemperature = "llm_temperature"
	keyListenAddr  = "listen_addr"
	keyBodyLimit   = "body_limit_mb"
	keyServerURL   = "server_url"
	keyNotesFile   = "notes_file"
	keyLogLevel    = "log_level"
	keyLogFormat   = "log_format"
)

// Load reads configuration. configFile may be empty. A missing .env file is
// not an error.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, falling back to environment variables")
	}

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config file %s", configFile)
		}
	}

	v.AutomaticEnv()
	for _, key := range v.AllKeys() {
		_ = v.BindEnv(key)
	}
	// OPEN_AI_API_KEY is the name older deployments use.
	_ = v.BindEnv(keyAPIKey, "OPENAI_API_KEY", "OPEN_AI_API_KEY")

	return &Config{
		OpenAIAPIKey:   v.GetString(keyAPIKey),
		OpenAIBaseURL:  v.GetString(keyBaseURL),
		STTModel:       v.GetString(keySTTModel),
		LLMModel:       v.GetString(keyLLMModel),
		LLMTemperature: float32(v.GetFloat64(keyTemperature)),
		ListenAddr:     v.GetString(keyListenAddr),
		BodyLimitMB:    v.GetInt(keyBodyLimit),
		ServerURL:      v.GetString(keyServerURL),
		NotesFile:      v.GetString(keyNotesFile),
		LogLevel:       v.GetString(keyLogLevel),
		LogFormat:      v.GetString(keyLogFormat),
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(keyAPIKey, "")
	v.SetDefault(keyBaseURL, "")
	v.SetDefault(keySTTModel, "whisper-1")
	v.SetDefault(keyLLMModel, "gpt-4o-mini")
	v.SetDefault(keyTemperature, 0.1)
	v.SetDefault(keyListenAddr, ":3000")
	v.SetDefault(keyBodyLimit, 25)
	v.SetDefault(keyServerURL, "http://localhost:3000")
	v.SetDefault(keyNotesFile, defaultNotesFile())
	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keyLogFormat, "console")
}

func defaultNotesFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "voicenotes", "broker-notes.json")
}

// RequireAPIKey fails when the server cannot reach OpenAI.
func (c *Config) RequireAPIKey() error {
	if c.OpenAIAPIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// BodyLimit returns the request body cap in bytes.
func (c *Config) BodyLimit() int {
	if c.BodyLimitMB <= 0 {
		return 25 * 1024 * 1024
	}
	return c.BodyLimitMB * 1024 * 1024
}
