package config

import (
	"os"
	"strconv"
)

// SizeConfig is one named derivative's target box.
type SizeConfig struct {
	Width  int
	Height int
}

// UploadConfig holds the ingestion core's ceilings and defaults. The byte
// ceilings are hard limits, never configurable per request.
type UploadConfig struct {
	MaxImageBytes   int64
	MaxPDFBytes     int64
	DefaultQuality  int
	StrictMultipart bool
	Thumbnail       SizeConfig
	Medium          SizeConfig
	Large           SizeConfig
}

// AppConfig is the centralized configuration struct for the application,
// populated from environment variables.
type AppConfig struct {
	AppHost string
	Port    string
	Upload  UploadConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// Real environment variables take precedence over the .env file.
func Load() *AppConfig {
	return &AppConfig{
		AppHost: getEnv("APP_HOST", "localhost:8080"),
		Port:    getEnv("PORT", "8080"),
		Upload: UploadConfig{
			MaxImageBytes:   getEnvInt64("UPLOAD_MAX_IMAGE_BYTES", 5<<20),
			MaxPDFBytes:     getEnvInt64("UPLOAD_MAX_PDF_BYTES", 50<<20),
			DefaultQuality:  getEnvInt("UPLOAD_DEFAULT_QUALITY", 85),
			StrictMultipart: getEnvBool("UPLOAD_STRICT_MULTIPART", false),
			Thumbnail: SizeConfig{
				Width:  getEnvInt("UPLOAD_THUMBNAIL_WIDTH", 200),
				Height: getEnvInt("UPLOAD_THUMBNAIL_HEIGHT", 200),
			},
			Medium: SizeConfig{
				Width:  getEnvInt("UPLOAD_MEDIUM_WIDTH", 800),
				Height: getEnvInt("UPLOAD_MEDIUM_HEIGHT", 600),
			},
			Large: SizeConfig{
				Width:  getEnvInt("UPLOAD_LARGE_WIDTH", 1600),
				Height: getEnvInt("UPLOAD_LARGE_HEIGHT", 1200),
			},
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.ParseInt(v, 10, 64)
		if err == nil {
			return i
		}
	}
	return def
}
