package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/OguzhanUlucay/easy-batch/pkg/batch/support/util/logger"
)

// Load reads defaults, merges in the YAML found at path (if path is
// non-empty and the file exists), then applies environment variable
// overrides, and returns the resulting Config. Environment variables are
// named by upper-casing the dotted yaml-tag path, e.g. LOGGING_LEVEL,
// EXECUTOR_WORKERS.
func Load(path string, envFilePath string) (*Config, error) {
	if envFilePath != "" {
		if err := godotenv.Load(envFilePath); err != nil {
			logger.Warnf("env file %q not found or could not be loaded: %v", envFilePath, err)
		}
	} else if err := godotenv.Load(); err != nil {
		logger.Debugf("no .env file loaded: %v", err)
	}

	cfg := NewConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("config: failed to read %q: %w", path, err)
			}
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(data, &fileCfg); err != nil {
				return nil, fmt.Errorf("config: failed to parse %q: %w", path, err)
			}
			merge(cfg, &fileCfg)
		}
	}

	if err := loadStructFromEnv(reflect.ValueOf(cfg).Elem(), ""); err != nil {
		return nil, fmt.Errorf("config: failed to apply environment overrides: %w", err)
	}

	logger.SetLevel(cfg.Logging.Level)
	return cfg, nil
}

// merge overlays every non-zero field of src onto dst.
func merge(dst, src *Config) {
	if src.Logging.Level != "" {
		dst.Logging.Level = src.Logging.Level
	}
	if src.Executor.Workers != 0 {
		dst.Executor.Workers = src.Executor.Workers
	}
	if src.JobDefaults.BatchSize != 0 {
		dst.JobDefaults.BatchSize = src.JobDefaults.BatchSize
	}
	if src.JobDefaults.ErrorThreshold != 0 {
		dst.JobDefaults.ErrorThreshold = src.JobDefaults.ErrorThreshold
	}
	dst.JobDefaults.BatchScanningEnabled = dst.JobDefaults.BatchScanningEnabled || src.JobDefaults.BatchScanningEnabled
	if src.Observability.PrometheusListenAddr != "" {
		dst.Observability.PrometheusListenAddr = src.Observability.PrometheusListenAddr
	}
	dst.Observability.TracingEnabled = dst.Observability.TracingEnabled || src.Observability.TracingEnabled

	if src.AdapterConfigs != nil {
		if dst.AdapterConfigs == nil {
			dst.AdapterConfigs = map[string]interface{}{}
		}
		for k, v := range src.AdapterConfigs {
			dst.AdapterConfigs[k] = v
		}
	}
}

// loadStructFromEnv recursively overrides val's fields from environment
// variables named by the uppercased yaml-tag path, prefix-joined with
// underscores.
func loadStructFromEnv(val reflect.Value, prefix string) error {
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := val.Field(i)
		fieldType := typ.Field(i)
		yamlTag := fieldType.Tag.Get("yaml")
		if yamlTag == "" || yamlTag == "-" {
			continue
		}
		envVarName := strings.ToUpper(prefix + yamlTag)

		if field.Kind() == reflect.Struct {
			if err := loadStructFromEnv(field, envVarName+"_"); err != nil {
				return err
			}
			continue
		}

		envValue, exists := os.LookupEnv(envVarName)
		if !exists {
			continue
		}
		if err := setField(field, envValue); err != nil {
			return fmt.Errorf("failed to set field %q from env var %q: %w", fieldType.Name, envVarName, err)
		}
	}
	return nil
}

func setField(field reflect.Value, value string) error {
	if !field.CanSet() {
		return nil
	}
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)
	}
	return nil
}
