package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Library
		Covers
		Global
	}

	HTTP struct {
		Port int32
		Host string
	}
	Library struct {
		DataDir       string // Directory holding the clippings file and the exclusion ledgers
		ClippingsFile string // Filename of the raw clippings export inside DataDir
		CoversDir     string // Directory for cached cover images
		StaticPath    string // Directory with the browser UI assets
	}
	Covers struct {
		FetchTimeout time.Duration // Per-request bound on each remote cover lookup
		MinBytes     int           // Bodies under this size are treated as placeholders
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", DefaultPort)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("data_dir", DefaultDataDir)
	v.SetDefault("clippings_file", DefaultClippingsFile)
	v.SetDefault("covers_dir", DefaultCoversDir)
	v.SetDefault("static_path", DefaultStaticPath)
	v.SetDefault("cover_fetch_timeout", "5s")
	v.SetDefault("cover_min_bytes", 1000)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Library: Library{
			DataDir:       v.GetString("DATA_DIR"),
			ClippingsFile: v.GetString("CLIPPINGS_FILE"),
			CoversDir:     v.GetString("COVERS_DIR"),
			StaticPath:    v.GetString("STATIC_PATH"),
		},
		Covers: Covers{
			FetchTimeout: v.GetDuration("COVER_FETCH_TIMEOUT"),
			MinBytes:     v.GetInt("COVER_MIN_BYTES"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}
}
