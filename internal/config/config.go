// Package config handles loading and validating the voicesmith configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config is the root configuration for the voicesmith daemon.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Transports TransportsConfig `mapstructure:"transports"`
	Synth      SynthConfig      `mapstructure:"synth"`
	Samples    SamplesConfig    `mapstructure:"samples"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig holds the health check server settings.
type ServerConfig struct {
	HealthPort int `mapstructure:"health_port"`
}

// TransportsConfig holds the configuration for each transport layer.
type TransportsConfig struct {
	HTTP HTTPConfig `mapstructure:"http"`
	GRPC GRPCConfig `mapstructure:"grpc"`
}

// HTTPConfig configures the HTTP transport.
type HTTPConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// GRPCConfig configures the gRPC transport.
type GRPCConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// SynthConfig configures the synthesis backends.
type SynthConfig struct {
	Local        LocalConfig      `mapstructure:"local"`
	Multilingual GTranslateConfig `mapstructure:"multilingual"`
	Delegate     DelegateConfig   `mapstructure:"delegate"`
}

// LocalConfig holds the local multi-voice engine settings.
type LocalConfig struct {
	// Engine selects the underlying speech engine: "auto" picks the best
	// one for the platform (SAPI on windows, say on darwin, eSpeak elsewhere).
	Engine string `mapstructure:"engine"` // "auto", "espeak", "say", "sapi"

	// TempDir is where per-request audio artifacts are written before
	// being read back and removed. Empty means the system temp dir.
	TempDir string `mapstructure:"temp_dir"`

	// Voices overrides the descriptor -> engine voice identity mapping
	// (e.g. "female" -> "en+f4" for eSpeak).
	Voices map[string]string `mapstructure:"voices"`
}

// GTranslateConfig holds the multilingual engine settings.
type GTranslateConfig struct {
	// Command is the gtts-cli binary name or path.
	Command string `mapstructure:"command"`

	// TempDir for intermediate audio files. Empty means the system temp dir.
	TempDir string `mapstructure:"temp_dir"`

	// RequestsPerMinute rate-limits calls to avoid being blocked upstream.
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
}

// DelegateConfig holds the remote delegate settings.
type DelegateConfig struct {
	// Enabled routes non-cloning requests to the delegate wholesale.
	Enabled bool `mapstructure:"enabled"`

	// Endpoint is the delegate's base address (e.g. "http://localhost:5000").
	Endpoint string `mapstructure:"endpoint"`

	// TimeoutSeconds bounds each delegate call. Zero means no client timeout;
	// the request context still applies.
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// SamplesConfig holds the voice sample store settings.
type SamplesConfig struct {
	// Root is the directory holding one subdirectory per uploaded sample.
	Root string `mapstructure:"root"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text
}

// Load reads the configuration from file, environment variables, and defaults.
// If configFile is non-empty it is used directly; otherwise the standard
// search order applies: ./voicesmith.yaml, ./configs/voicesmith.yaml,
// /etc/voicesmith/voicesmith.yaml.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.health_port", 8081)
	v.SetDefault("transports.http.enabled", true)
	v.SetDefault("transports.http.port", 8080)
	v.SetDefault("transports.grpc.enabled", false)
	v.SetDefault("transports.grpc.port", 50051)
	v.SetDefault("synth.local.engine", "auto")
	v.SetDefault("synth.local.temp_dir", "")
	v.SetDefault("synth.multilingual.command", "gtts-cli")
	v.SetDefault("synth.multilingual.temp_dir", "")
	v.SetDefault("synth.multilingual.requests_per_minute", 50)
	v.SetDefault("synth.delegate.enabled", false)
	v.SetDefault("synth.delegate.endpoint", "http://localhost:5000")
	v.SetDefault("synth.delegate.timeout_seconds", 0)
	v.SetDefault("samples.root", "uploads/voices")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("voicesmith")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/voicesmith")
	}

	// Environment variables: VOICESMITH_SERVER_HEALTH_PORT, VOICESMITH_SYNTH_DELEGATE_ENDPOINT, etc.
	v.SetEnvPrefix("VOICESMITH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (optional — env vars and defaults are sufficient)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		slog.Info("no config file found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return &cfg, nil
}

// SetupLogging configures the global slog logger based on config.
func SetupLogging(cfg LoggingConfig) {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
