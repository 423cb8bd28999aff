package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server:  ServerConfig{Host: "127.0.0.1", Port: 8990},
		Storage: StorageConfig{Path: "curriculos.db"},
		Crypto:  CryptoConfig{KeyPath: "curriculos.key"},
		LLM:     LLMConfig{BaseURL: "https://api.groq.com/openai/v1"},
	}
}

func TestValidate_OK(t *testing.T) {
	t.Parallel()
	require.NoError(t, validConfig().Validate())
}

func TestValidate_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{
			name:    "empty storage path",
			mutate:  func(c *Config) { c.Storage.Path = "" },
			wantMsg: "storage.path",
		},
		{
			name:    "empty key path",
			mutate:  func(c *Config) { c.Crypto.KeyPath = "" },
			wantMsg: "crypto.key_path",
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantMsg: "server.port",
		},
		{
			name:    "empty llm base url",
			mutate:  func(c *Config) { c.LLM.BaseURL = "" },
			wantMsg: "llm.base_url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoad_EnvOnly(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("STORAGE_PATH", "/tmp/test-curriculos.db")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/test-curriculos.db", cfg.Storage.Path)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8990, cfg.Server.Port)
	assert.False(t, cfg.Backup.Encrypted)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")

	_, err := Load()
	require.Error(t, err)
}
