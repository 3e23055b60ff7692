package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	AppName    = "Precis"
	AppVersion = "1.0.0"
	AppRepo    = "https://github.com/precis-app/precis"
)

// UserAgent identifies outbound requests to model hubs and APIs.
var UserAgent = AppName + "/" + AppVersion + " (+" + AppRepo + ")"

// DefaultModelID is the pretrained summarization model resolved at startup.
const DefaultModelID = "facebook/bart-large-cnn"

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "SUMMARIZER_"

type Config struct {
	Addr      string `env:"ADDR"       envDefault:":8080"`
	DataDir   string `env:"DATA_DIR"   envDefault:"./data"`
	DBPath    string `env:"DB_PATH"`
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	ModelBackend string `env:"MODEL_BACKEND"  envDefault:"huggingface"`
	ModelID      string `env:"MODEL_ID"       envDefault:"facebook/bart-large-cnn"`
	ModelAPIKey  string `env:"MODEL_API_KEY"`
	ModelBaseURL string `env:"MODEL_BASE_URL"`
	HubURL       string `env:"HUB_URL"        envDefault:"https://huggingface.co"`
	InferenceURL string `env:"INFERENCE_URL"  envDefault:"https://router.huggingface.co/hf-inference"`

	MaxUploadBytes int64         `env:"MAX_UPLOAD_BYTES" envDefault:"5242880"`
	MaxConcurrent  int64         `env:"MAX_CONCURRENT"   envDefault:"1"`
	RateLimit      int           `env:"RATE_LIMIT"       envDefault:"10"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"  envDefault:"2m"`
	ProxyURL       string        `env:"PROXY_URL"`

	// AdminPassword enables the settings and reload endpoints; empty disables them.
	AdminUsername string `env:"ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	RunRetention  time.Duration `env:"RUN_RETENTION"  envDefault:"720h"`
	RetentionSpec string        `env:"RETENTION_SPEC" envDefault:"@daily"`
	SnowflakeNode int64         `env:"SNOWFLAKE_NODE" envDefault:"1"`
}

// Load reads the configuration from SUMMARIZER_* environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.DataDir, "precis.db")
	}
	cfg.DBPath = filepath.Clean(cfg.DBPath)
	cfg.DataDir = filepath.Clean(cfg.DataDir)

	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 1
	}
	if cfg.MaxUploadBytes <= 0 {
		return Config{}, fmt.Errorf("%sMAX_UPLOAD_BYTES must be positive", EnvPrefix)
	}

	return cfg, nil
}
