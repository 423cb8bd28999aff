package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Crypto  CryptoConfig  `yaml:"crypto"`
	Backup  BackupConfig  `yaml:"backup"`
	LLM     LLMConfig     `yaml:"llm"`
	CORS    CORSConfig    `yaml:"cors"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig holds HTTP server settings. The server is UI glue for a
// single-user app, so it binds to loopback by default.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"127.0.0.1"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8990"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"90s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// StorageConfig holds the embedded database settings.
type StorageConfig struct {
	Path        string        `yaml:"path"         env:"STORAGE_PATH"         env-default:"curriculos.db"`
	BusyTimeout time.Duration `yaml:"busy_timeout" env:"STORAGE_BUSY_TIMEOUT" env-default:"5s"`
}

// CryptoConfig holds at-rest encryption settings. When Passphrase is set the
// key file stores only a salt and the key is derived from the passphrase, so
// encrypted backups can be restored on other devices sharing the passphrase.
type CryptoConfig struct {
	KeyPath    string `yaml:"key_path"   env:"CRYPTO_KEY_PATH"   env-default:"curriculos.key"`
	Passphrase string `yaml:"passphrase" env:"CRYPTO_PASSPHRASE"`
}

// BackupConfig holds backup export settings.
type BackupConfig struct {
	Encrypted bool `yaml:"encrypted" env:"BACKUP_ENCRYPTED" env-default:"false"`
}

// LLMConfig holds settings for the resume-generation API client.
// The API key and model live in user settings, not here.
type LLMConfig struct {
	BaseURL    string        `yaml:"base_url"    env:"LLM_BASE_URL"    env-default:"https://api.groq.com/openai/v1"`
	Timeout    time.Duration `yaml:"timeout"     env:"LLM_TIMEOUT"     env-default:"60s"`
	PromptPath string        `yaml:"prompt_path" env:"LLM_PROMPT_PATH"`
}

// CORSConfig holds CORS settings for the local UI.
type CORSConfig struct {
	AllowedOrigins string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"*"`
	AllowedMethods string `yaml:"allowed_methods" env:"CORS_ALLOWED_METHODS" env-default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowedHeaders string `yaml:"allowed_headers" env:"CORS_ALLOWED_HEADERS" env-default:"Content-Type"`
	MaxAge         int    `yaml:"max_age"         env:"CORS_MAX_AGE"         env-default:"86400"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}
