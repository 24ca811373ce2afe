package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"revscope/internal/model"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	BaseURL             string
	StartDate           string
	ChainLabel          string
	ChainLabelAlt       string
	AllowDoubleCounting bool
	Timeout             time.Duration
	MaxRetries          int
	RetryBackoff        time.Duration
	Concurrency         int
	Out                 string
	Format              string
	PGDSN               string
	DebugDir            string
	LogLevel            string
	Protocols           []model.ProtocolEntry
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("REVSCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("base-url", "https://api.llama.fi")
	v.SetDefault("start-date", "2025-02-01")
	v.SetDefault("chain-label", "Hyperliquid L1")
	v.SetDefault("chain-label-alt", "Hyperliquid")
	v.SetDefault("allow-double-counting", true)
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("max-retries", 3)
	v.SetDefault("retry-backoff", 500*time.Millisecond)
	v.SetDefault("concurrency", 4)
	v.SetDefault("format", "csv")
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		BaseURL:             v.GetString("base-url"),
		StartDate:           v.GetString("start-date"),
		ChainLabel:          v.GetString("chain-label"),
		ChainLabelAlt:       v.GetString("chain-label-alt"),
		AllowDoubleCounting: v.GetBool("allow-double-counting"),
		Timeout:             v.GetDuration("timeout"),
		MaxRetries:          v.GetInt("max-retries"),
		RetryBackoff:        v.GetDuration("retry-backoff"),
		Concurrency:         v.GetInt("concurrency"),
		Out:                 v.GetString("out"),
		Format:              v.GetString("format"),
		PGDSN:               v.GetString("pg-dsn"),
		DebugDir:            v.GetString("debug-dir"),
		LogLevel:            v.GetString("log-level"),
	}

	if v.IsSet("protocols") {
		if err := v.UnmarshalKey("protocols", &cfg.Protocols); err != nil {
			return Config{}, fmt.Errorf("parse protocols: %w", err)
		}
	}

	return cfg, nil
}

// ParseDate parses a YYYY-MM-DD date as a UTC calendar day.
func ParseDate(input string) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, nil
	}
	day, err := time.ParseInLocation("2006-01-02", input, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", input, err)
	}
	return day, nil
}
