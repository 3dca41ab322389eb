package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	envPrefix = "HTTP_REQUEST"

	defaultMethod         = "GET"
	defaultTimeoutSeconds = 30
)

// Config holds the request options and runtime settings loaded from flags,
// environment variables, an optional request file and defaults.
type Config struct {
	URL            string            `mapstructure:"-"`
	Method         string            `mapstructure:"-"`
	Headers        map[string]string `mapstructure:"-"`
	Body           any               `mapstructure:"-"`
	TimeoutSeconds int64             `mapstructure:"-"`
	Timeout        time.Duration     `mapstructure:"-"`
	Verbose        bool              `mapstructure:"-"`

	RequestFile       string        `mapstructure:"request_file"`
	LogLevel          string        `mapstructure:"log_level"`
	JournalType       string        `mapstructure:"journal_type"`
	JournalPath       string        `mapstructure:"journal_path"`
	JournalTTLSeconds int64         `mapstructure:"journal_ttl_seconds"`
	JournalTTL        time.Duration `mapstructure:"-"`
}

// flagKeys maps CLI flag names onto config keys.
var flagKeys = map[string]string{
	"url":                 "url",
	"method":              "method",
	"headers":             "headers",
	"body":                "body",
	"timeout":             "timeout",
	"verbose":             "verbose",
	"request-file":        "request_file",
	"log-level":           "log_level",
	"journal-type":        "journal_type",
	"journal-path":        "journal_path",
	"journal-ttl-seconds": "journal_ttl_seconds",
}

// Load reads configuration. Flags win over HTTP_REQUEST_* environment
// variables, which win over the request file, which wins over defaults.
// flags may be nil.
func Load(flags *pflag.FlagSet) (*Config, error) {
	_ = godotenv.Load(".env")

	v := viper.New()

	v.SetDefault("request_file", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("journal_type", "none")
	v.SetDefault("journal_path", "./data/http-request.db")
	v.SetDefault("journal_ttl_seconds", int64((7*24*time.Hour)/time.Second))

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	var file RequestFile
	if path := strings.TrimSpace(cfg.RequestFile); path != "" {
		loaded, err := LoadRequestFile(path)
		if err != nil {
			return nil, err
		}
		file = loaded
	}

	if err := cfg.applyRequest(v, file); err != nil {
		return nil, err
	}

	if cfg.JournalTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid journal_ttl_seconds (must be positive seconds)")
	}
	cfg.JournalTTL = time.Duration(cfg.JournalTTLSeconds) * time.Second

	return &cfg, nil
}

// applyRequest resolves the request keys, which have no viper defaults so that
// IsSet only reports values from flags or the environment.
func (cfg *Config) applyRequest(v *viper.Viper, file RequestFile) error {
	cfg.URL = strings.TrimSpace(pickString(v, "url", file.URL))
	cfg.Method = strings.ToUpper(strings.TrimSpace(pickString(v, "method", file.Method)))
	if cfg.Method == "" {
		cfg.Method = defaultMethod
	}

	cfg.Headers = file.Headers
	if v.IsSet("headers") {
		headers, err := ParseHeaders(v.Get("headers"))
		if err != nil {
			return err
		}
		cfg.Headers = headers
	}

	cfg.Body = file.Body
	if v.IsSet("body") {
		cfg.Body = ParseBody(v.GetString("body"))
	}

	cfg.TimeoutSeconds = file.TimeoutSeconds
	if v.IsSet("timeout") {
		cfg.TimeoutSeconds = v.GetInt64("timeout")
	}
	if cfg.TimeoutSeconds == 0 {
		cfg.TimeoutSeconds = defaultTimeoutSeconds
	}
	if cfg.TimeoutSeconds < 0 {
		return fmt.Errorf("invalid timeout (must be positive seconds)")
	}
	cfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second

	if file.Verbose != nil {
		cfg.Verbose = *file.Verbose
	}
	if v.IsSet("verbose") {
		cfg.Verbose = v.GetBool("verbose")
	}
	return nil
}

// ValidateRequest checks the settings a request run cannot do without.
func (cfg *Config) ValidateRequest() error {
	if cfg == nil {
		return errors.New("config must not be nil")
	}
	if cfg.URL == "" {
		return errors.New("url is required (flag --url or HTTP_REQUEST_URL)")
	}
	return nil
}

func pickString(v *viper.Viper, key, fallback string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return fallback
}
