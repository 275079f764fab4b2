package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/midwicket/crickstack/internal/platform/logging"
)

// Config stores runtime configuration for the ingestion pipeline and API.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	CORSAllowedOrigins []string

	DataDir string
	RawDir  string
	DBPath  string

	CricsheetBaseURL  string
	CricsheetPeople   string
	DownloadTimeout   time.Duration
	IngestBatchSize   int
	IngestParseWorker int

	ESPNBaseURL              string
	ESPNTimeout              time.Duration
	ESPNProbeDelay           time.Duration
	ESPNMaxRetries           int
	ESPNCircuitEnabled       bool
	ESPNCircuitFailureCount  int
	ESPNCircuitOpenTimeout   time.Duration
	ESPNCircuitHalfOpenMaxRq int

	CacheEnabled bool
	CacheTTL     time.Duration

	PprofEnabled bool
	PprofAddr    string

	LogLevel logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	dataDir := strings.TrimSpace(getEnv("CRICKET_DATA_DIR", "data"))
	if dataDir == "" {
		return Config{}, fmt.Errorf("CRICKET_DATA_DIR cannot be empty")
	}

	readTimeout, err := time.ParseDuration(getEnv("HTTP_READ_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse HTTP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("HTTP_WRITE_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse HTTP_WRITE_TIMEOUT: %w", err)
	}

	downloadTimeout, err := time.ParseDuration(getEnv("CRICKET_DOWNLOAD_TIMEOUT", "120s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CRICKET_DOWNLOAD_TIMEOUT: %w", err)
	}
	ingestBatchSize, err := getEnvAsInt("CRICKET_INGEST_BATCH_SIZE", 1000)
	if err != nil {
		return Config{}, fmt.Errorf("parse CRICKET_INGEST_BATCH_SIZE: %w", err)
	}
	if ingestBatchSize <= 0 {
		return Config{}, fmt.Errorf("CRICKET_INGEST_BATCH_SIZE must be > 0")
	}
	ingestParseWorkers, err := getEnvAsInt("CRICKET_INGEST_PARSE_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse CRICKET_INGEST_PARSE_WORKERS: %w", err)
	}
	if ingestParseWorkers <= 0 {
		return Config{}, fmt.Errorf("CRICKET_INGEST_PARSE_WORKERS must be > 0")
	}

	espnTimeout, err := time.ParseDuration(getEnv("ESPN_TIMEOUT", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ESPN_TIMEOUT: %w", err)
	}
	espnProbeDelay, err := time.ParseDuration(getEnv("ESPN_PROBE_DELAY", "4s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ESPN_PROBE_DELAY: %w", err)
	}
	if espnProbeDelay < 0 {
		return Config{}, fmt.Errorf("ESPN_PROBE_DELAY must be >= 0")
	}
	espnMaxRetries, err := getEnvAsInt("ESPN_MAX_RETRIES", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse ESPN_MAX_RETRIES: %w", err)
	}
	espnCircuitEnabled, err := strconv.ParseBool(getEnv("ESPN_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ESPN_CIRCUIT_ENABLED: %w", err)
	}
	espnCircuitFailureCount, err := getEnvAsInt("ESPN_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse ESPN_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	espnCircuitOpenTimeout, err := time.ParseDuration(getEnv("ESPN_CIRCUIT_OPEN_TIMEOUT", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ESPN_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	espnCircuitHalfOpenMaxReq, err := getEnvAsInt("ESPN_CIRCUIT_HALF_OPEN_MAX_REQ", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse ESPN_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "5m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        getEnv("SERVICE_NAME", "crickstack"),
		ServiceVersion:     getEnv("SERVICE_VERSION", "dev"),
		HTTPAddr:           getEnv("HTTP_ADDR", ":8000"),
		ReadTimeout:        readTimeout,
		WriteTimeout:       writeTimeout,
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),

		DataDir: dataDir,
		RawDir:  getEnv("CRICKET_RAW_DIR", filepath.Join(dataDir, "raw")),
		DBPath:  getEnv("CRICKET_DB_PATH", filepath.Join(dataDir, "cricket.db")),

		CricsheetBaseURL:  strings.TrimRight(getEnv("CRICSHEET_BASE_URL", "https://cricsheet.org"), "/"),
		CricsheetPeople:   getEnv("CRICSHEET_PEOPLE_URL", "https://cricsheet.org/register/people.csv"),
		DownloadTimeout:   downloadTimeout,
		IngestBatchSize:   ingestBatchSize,
		IngestParseWorker: ingestParseWorkers,

		ESPNBaseURL:              strings.TrimRight(getEnv("ESPN_BASE_URL", "https://www.espncricinfo.com"), "/"),
		ESPNTimeout:              espnTimeout,
		ESPNProbeDelay:           espnProbeDelay,
		ESPNMaxRetries:           espnMaxRetries,
		ESPNCircuitEnabled:       espnCircuitEnabled,
		ESPNCircuitFailureCount:  espnCircuitFailureCount,
		ESPNCircuitOpenTimeout:   espnCircuitOpenTimeout,
		ESPNCircuitHalfOpenMaxRq: espnCircuitHalfOpenMaxReq,

		CacheEnabled: cacheEnabled,
		CacheTTL:     cacheTTL,

		PprofEnabled: pprofEnabled,
		PprofAddr:    getEnv("PPROF_ADDR", "localhost:6060"),

		LogLevel: parseLogLevel(getEnv("LOG_LEVEL", "info")),
	}

	return cfg, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
