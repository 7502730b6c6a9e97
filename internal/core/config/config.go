package config

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/spf13/viper"
)

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the ops server (health endpoints) will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`

	// DatabaseURL is the Postgres connection string for the commerce backend database.
	DatabaseURL string `mapstructure:"DATABASE_URL" required:"true"`
	// RedisURL is the Redis connection string used for per-store run locks.
	RedisURL string `mapstructure:"REDIS_URL" default:"redis://localhost:6379/0"`

	// Marketplace holds the marketplace feed API configuration.
	Marketplace MarketplaceConfig `mapstructure:",squash"`

	// Sync holds the scheduler settings and sync policy defaults.
	Sync SyncConfig `mapstructure:",squash"`
}

// MarketplaceConfig holds the connection details for the marketplace feed API.
type MarketplaceConfig struct {
	// URL is the base URL of the marketplace API.
	URL string `mapstructure:"FEED_API_URL" required:"true"`
	// Token is the fallback API token used for stores without their own token.
	Token string `mapstructure:"FEED_API_TOKEN"`
	// TimeoutSeconds bounds every marketplace API call.
	TimeoutSeconds int `mapstructure:"FEED_API_TIMEOUT" default:"10"`
	// ProxyURL routes marketplace API traffic through an egress proxy when set.
	ProxyURL string `mapstructure:"FEED_API_PROXY"`
}

// SyncConfig holds the scheduler settings and the store-level sync policy defaults.
type SyncConfig struct {
	// IntervalSeconds is the delay between two scheduled sync runs.
	IntervalSeconds int `mapstructure:"SYNC_INTERVAL" default:"300"`
	// LockTTLSeconds is the expiry of the per-store run lock.
	LockTTLSeconds int `mapstructure:"SYNC_LOCK_TTL" default:"600"`
	// ImportFromDays is how far back remote orders are considered importable.
	ImportFromDays int `mapstructure:"ORDER_IMPORT_FROM_DAYS" default:"14"`
	// SyncingFromDays is how far back orders are considered syncable.
	SyncingFromDays int `mapstructure:"ORDER_SYNCING_FROM_DAYS" default:"30"`
	// RefusalAction is the default syncing action for refused orders.
	RefusalAction string `mapstructure:"ORDER_REFUSAL_ACTION" default:"cancel"`
	// CancellationAction is the default syncing action for cancelled orders.
	CancellationAction string `mapstructure:"ORDER_CANCELLATION_ACTION" default:"cancel"`
	// RefundAction is the default syncing action for refunded orders.
	RefundAction string `mapstructure:"ORDER_REFUND_ACTION" default:"none"`
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// processTags iterates over the struct fields and sets default values in Viper.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key != "" {
			v.BindEnv(key)
		}

		if key != "" && defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		required := field.Tag.Get("required")
		if required == "true" {
			value := val.Field(i)
			if isZero(value) {
				key := field.Tag.Get("mapstructure")
				return fmt.Errorf("missing required configuration: %s", key)
			}
		}
	}
	return nil
}

// isZero checks if a reflect.Value is the zero value for its type.
func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}
