package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	// Config holds the runtime configuration of the CLI and HTTP
	// collaborators. The extraction core itself takes plain option
	// values and never reads the environment.
	Config struct {
		HTTP
		Parse
		Fetch
		Cover
	}

	HTTP struct {
		Host string
		Port int
	}
	Parse struct {
		PreviewLength  int
		MaxUploadBytes int64
	}
	Fetch struct {
		Timeout    time.Duration
		RetryCount int
		MaxBytes   int64
	}
	Cover struct {
		MaxWidth int
	}
)

// New builds a Config from environment variables prefixed with
// EPUBPROBE_ (e.g. EPUBPROBE_PORT), falling back to defaults.
func New() *Config {
	v := viper.New()
	v.SetEnvPrefix("epubprobe")
	v.AutomaticEnv()

	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 8080)
	v.SetDefault("preview_length", 200)
	v.SetDefault("max_upload_bytes", int64(10<<20))
	v.SetDefault("fetch_timeout", "30s")
	v.SetDefault("fetch_retry_count", 3)
	v.SetDefault("fetch_max_bytes", int64(10<<20))
	v.SetDefault("cover_max_width", 600)

	return &Config{
		HTTP: HTTP{
			Host: v.GetString("host"),
			Port: v.GetInt("port"),
		},
		Parse: Parse{
			PreviewLength:  v.GetInt("preview_length"),
			MaxUploadBytes: v.GetInt64("max_upload_bytes"),
		},
		Fetch: Fetch{
			Timeout:    v.GetDuration("fetch_timeout"),
			RetryCount: v.GetInt("fetch_retry_count"),
			MaxBytes:   v.GetInt64("fetch_max_bytes"),
		},
		Cover: Cover{
			MaxWidth: v.GetInt("cover_max_width"),
		},
	}
}
