package infra

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv               string
	Port                 string
	GeminiBaseURL        string
	GeminiAPIVersion     string
	AnalysisModel        string
	PreviewPrimaryModel  string
	PreviewFallbackModel string
	UpstreamTimeout      time.Duration
	AssetFetchTimeout    time.Duration
	MaxAssetBytes        int64
	MaxUploadBytes       int64
	DatabaseURL          string
	CredentialFile       string
	CORSAllowedOrigins   []string
	HTTPReadTimeout      time.Duration
	HTTPWriteTimeout     time.Duration
	HTTPIdleTimeout      time.Duration
	RateLimitPerMin      int
}

const (
	DefaultAnalysisModel        = "gemini-3-flash-preview"
	DefaultPreviewPrimaryModel  = "gemini-3-pro-image-preview"
	DefaultPreviewFallbackModel = "gemini-2.5-flash-image"
)

// LoadConfig loads configuration from environment variables and applies defaults where needed.
// Nothing is required: the credential is resolved per call, not at startup.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:               getEnv("APP_ENV", "development"),
		Port:                 getEnv("PORT", "8080"),
		GeminiBaseURL:        os.Getenv("GEMINI_BASE_URL"),
		GeminiAPIVersion:     getEnv("GEMINI_API_VERSION", "v1beta"),
		AnalysisModel:        getEnv("ANALYSIS_MODEL", DefaultAnalysisModel),
		PreviewPrimaryModel:  getEnv("PREVIEW_PRIMARY_MODEL", DefaultPreviewPrimaryModel),
		PreviewFallbackModel: getEnv("PREVIEW_FALLBACK_MODEL", DefaultPreviewFallbackModel),
		UpstreamTimeout:      time.Second * time.Duration(getEnvInt("UPSTREAM_TIMEOUT_SECONDS", 120)),
		AssetFetchTimeout:    time.Second * time.Duration(getEnvInt("ASSET_FETCH_TIMEOUT_SECONDS", 20)),
		MaxAssetBytes:        int64(getEnvInt("MAX_ASSET_BYTES", 20<<20)),
		MaxUploadBytes:       int64(getEnvInt("MAX_UPLOAD_MB", 64)) << 20,
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		CredentialFile:       getEnv("CREDENTIAL_FILE", defaultCredentialFile()),
		CORSAllowedOrigins:   splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")),
		HTTPReadTimeout:      time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 30)),
		HTTPWriteTimeout:     time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 300)),
		HTTPIdleTimeout:      time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:      getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}

	if cfg.UpstreamTimeout <= 0 {
		cfg.UpstreamTimeout = 120 * time.Second
	}
	if cfg.AssetFetchTimeout <= 0 {
		cfg.AssetFetchTimeout = 20 * time.Second
	}
	if cfg.MaxAssetBytes <= 0 {
		cfg.MaxAssetBytes = 20 << 20
	}
	// The write timeout must outlive one analysis plus two preview attempts.
	if floor := cfg.UpstreamTimeout*2 + 10*time.Second; cfg.HTTPWriteTimeout < floor {
		cfg.HTTPWriteTimeout = floor
	}

	return cfg, nil
}

func defaultCredentialFile() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return filepath.Join(".moodspec", "credentials.json")
	}
	return filepath.Join(dir, "moodspec", "credentials.json")
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
