package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type LookupFunc func(string) (string, bool)

type Config struct {
	Service       ServiceConfig
	Convert       ConvertConfig
	Generate      GenerateConfig
	Catalog       CatalogConfig
	ObjectStore   ObjectStoreConfig
	Observability ObservabilityConfig
}

type ServiceConfig struct {
	Name string
}

type ConvertConfig struct {
	SourceDir string
}

type GenerateConfig struct {
	ScaleFactor float64
	OutputDir   string
	DatasetName string
	CreatedBy   string
}

type CatalogConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration
}

type ObjectStoreConfig struct {
	UploadEnabled    bool
	Endpoint         string
	Region           string
	Bucket           string
	AccessKeyID      string
	SecretAccessKey  string
	UseSSL           bool
	Prefix           string
	AutoCreateBucket bool
}

type ObservabilityConfig struct {
	LogLevel    slog.Level
	LogJSON     bool
	MetricsFile string
}

func LoadFromEnv(serviceName string) (Config, error) {
	return Load(serviceName, os.LookupEnv)
}

func Load(serviceName string, lookup LookupFunc) (Config, error) {
	if lookup == nil {
		return Config{}, fmt.Errorf("lookup function is required")
	}

	cfg := defaults()
	if serviceName != "" {
		cfg.Service.Name = serviceName
	}

	if err := applyString(lookup, "BENCHPREP_SERVICE_NAME", &cfg.Service.Name); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "BENCHPREP_SOURCE_DIR", &cfg.Convert.SourceDir); err != nil {
		return Config{}, err
	}
	if err := applyFloat(lookup, "BENCHPREP_SCALE_FACTOR", &cfg.Generate.ScaleFactor); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "BENCHPREP_OUTPUT_DIR", &cfg.Generate.OutputDir); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "BENCHPREP_DATASET_NAME", &cfg.Generate.DatasetName); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "BENCHPREP_CREATED_BY", &cfg.Generate.CreatedBy); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "BENCHPREP_CATALOG_DSN", &cfg.Catalog.DSN); err != nil {
		return Config{}, err
	}
	if err := applyInt(lookup, "BENCHPREP_CATALOG_MAX_OPEN_CONNS", &cfg.Catalog.MaxOpenConns); err != nil {
		return Config{}, err
	}
	if err := applyInt(lookup, "BENCHPREP_CATALOG_MAX_IDLE_CONNS", &cfg.Catalog.MaxIdleConns); err != nil {
		return Config{}, err
	}
	if err := applyDuration(lookup, "BENCHPREP_CATALOG_CONN_MAX_IDLE_TIME", &cfg.Catalog.ConnMaxIdleTime); err != nil {
		return Config{}, err
	}
	if err := applyDuration(lookup, "BENCHPREP_CATALOG_CONN_MAX_LIFETIME", &cfg.Catalog.ConnMaxLifetime); err != nil {
		return Config{}, err
	}
	if err := applyBool(lookup, "BENCHPREP_UPLOAD_ENABLED", &cfg.ObjectStore.UploadEnabled); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "BENCHPREP_OBJECTSTORE_ENDPOINT", &cfg.ObjectStore.Endpoint); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "BENCHPREP_OBJECTSTORE_REGION", &cfg.ObjectStore.Region); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "BENCHPREP_OBJECTSTORE_BUCKET", &cfg.ObjectStore.Bucket); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "BENCHPREP_OBJECTSTORE_ACCESS_KEY", &cfg.ObjectStore.AccessKeyID); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "BENCHPREP_OBJECTSTORE_SECRET_KEY", &cfg.ObjectStore.SecretAccessKey); err != nil {
		return Config{}, err
	}
	if err := applyBool(lookup, "BENCHPREP_OBJECTSTORE_USE_SSL", &cfg.ObjectStore.UseSSL); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "BENCHPREP_OBJECTSTORE_PREFIX", &cfg.ObjectStore.Prefix); err != nil {
		return Config{}, err
	}
	if err := applyBool(lookup, "BENCHPREP_OBJECTSTORE_AUTO_CREATE_BUCKET", &cfg.ObjectStore.AutoCreateBucket); err != nil {
		return Config{}, err
	}
	if err := applyLogLevel(lookup, "BENCHPREP_LOG_LEVEL", &cfg.Observability.LogLevel); err != nil {
		return Config{}, err
	}
	if err := applyBool(lookup, "BENCHPREP_LOG_JSON", &cfg.Observability.LogJSON); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "BENCHPREP_METRICS_FILE", &cfg.Observability.MetricsFile); err != nil {
		return Config{}, err
	}

	if cfg.Service.Name == "" {
		return Config{}, fmt.Errorf("service name is required")
	}
	if cfg.Generate.ScaleFactor <= 0 {
		return Config{}, fmt.Errorf("scale factor must be > 0")
	}
	if cfg.ObjectStore.UploadEnabled {
		if cfg.ObjectStore.Endpoint == "" {
			return Config{}, fmt.Errorf("object store endpoint is required when upload is enabled")
		}
		if cfg.ObjectStore.Bucket == "" {
			return Config{}, fmt.Errorf("object store bucket is required when upload is enabled")
		}
	}
	return cfg, nil
}

func defaults() Config {
	return Config{
		Service: ServiceConfig{Name: "benchprep"},
		Convert: ConvertConfig{
			SourceDir: ".",
		},
		Generate: GenerateConfig{
			ScaleFactor: 1,
			CreatedBy:   "benchprep-generate",
		},
		Catalog: CatalogConfig{
			MaxOpenConns:    4,
			MaxIdleConns:    4,
			ConnMaxIdleTime: 5 * time.Minute,
			ConnMaxLifetime: 30 * time.Minute,
		},
		ObjectStore: ObjectStoreConfig{
			Region:           "us-east-1",
			UseSSL:           false,
			AutoCreateBucket: true,
		},
		Observability: ObservabilityConfig{
			LogLevel: slog.LevelInfo,
			LogJSON:  false,
		},
	}
}

func applyString(lookup LookupFunc, key string, dst *string) error {
	raw, ok := lookup(key)
	if !ok {
		return nil
	}
	*dst = strings.TrimSpace(raw)
	return nil
}

func applyDuration(lookup LookupFunc, key string, dst *time.Duration) error {
	raw, ok := lookup(key)
	if !ok {
		return nil
	}
	value, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = value
	return nil
}

func applyBool(lookup LookupFunc, key string, dst *bool) error {
	raw, ok := lookup(key)
	if !ok {
		return nil
	}
	value, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = value
	return nil
}

func applyInt(lookup LookupFunc, key string, dst *int) error {
	raw, ok := lookup(key)
	if !ok {
		return nil
	}
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = value
	return nil
}

func applyFloat(lookup LookupFunc, key string, dst *float64) error {
	raw, ok := lookup(key)
	if !ok {
		return nil
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = value
	return nil
}

func applyLogLevel(lookup LookupFunc, key string, dst *slog.Level) error {
	raw, ok := lookup(key)
	if !ok {
		return nil
	}
	level := strings.ToLower(strings.TrimSpace(raw))
	switch level {
	case "debug":
		*dst = slog.LevelDebug
	case "info":
		*dst = slog.LevelInfo
	case "warn", "warning":
		*dst = slog.LevelWarn
	case "error":
		*dst = slog.LevelError
	default:
		return fmt.Errorf("invalid %s: %q", key, raw)
	}
	return nil
}
