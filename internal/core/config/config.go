package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full application configuration.
// Tags used:
// - mapstructure: used by viper to unmarshal (nested keys are dot-joined)
// - default: default value to set if missing
// - required: if "true", error if missing
type Config struct {
	// OrderDetails holds the single-order lookup inputs.
	OrderDetails OrderDetailsConfig `mapstructure:"order_details"`
	// Browser holds the browser session settings.
	Browser BrowserConfig `mapstructure:"browser_settings"`
	// Site holds the target storefront settings.
	Site SiteConfig `mapstructure:"site"`
	// Batch holds the batch sweep settings.
	Batch BatchConfig `mapstructure:"batch"`
	// Audit holds the per-attempt dump settings.
	Audit AuditConfig `mapstructure:"audit"`
	// Proxy holds the upstream proxy settings for the browser session.
	Proxy ProxyConfig `mapstructure:"proxy"`
	// Redis holds the optional Redis progress store settings.
	Redis RedisConfig `mapstructure:"redis"`
	// Server holds the status server settings.
	Server ServerConfig `mapstructure:"server"`
	// Logging holds the logger settings.
	Logging LoggingConfig `mapstructure:"logging"`
}

// OrderDetailsConfig holds the inputs for a single-order lookup.
type OrderDetailsConfig struct {
	// OrderNumber is the order to look up (format "CM" + digits).
	OrderNumber string `mapstructure:"order_number"`
	// MobileNumber is the customer identifier paired with the order.
	MobileNumber string `mapstructure:"mobile_number"`
}

// BrowserConfig holds browser session settings.
type BrowserConfig struct {
	// Headless runs the browser without a visible window.
	Headless bool `mapstructure:"headless" default:"true"`
	// WindowSize is the browser window size as "width,height".
	WindowSize string `mapstructure:"window_size" default:"1920,1080"`
	// WaitTimeout is the bounded wait for form elements, in seconds.
	WaitTimeout int `mapstructure:"wait_timeout" default:"10"`
}

// SiteConfig holds the target storefront settings.
type SiteConfig struct {
	// TrackingURL is the order-tracking page driven by the form submitter.
	TrackingURL string `mapstructure:"tracking_url" default:"https://shop.du.ae/en/order-tracking" required:"true"`
}

// BatchConfig holds the batch sweep settings.
type BatchConfig struct {
	// OrdersFile is an optional file with one order number per line.
	OrdersFile string `mapstructure:"orders_file"`
	// CustomersFile is an optional file with one customer identifier per line.
	CustomersFile string `mapstructure:"customers_file"`
	// OrderPrefix is the prefix for generated order numbers.
	OrderPrefix string `mapstructure:"order_prefix" default:"CM000215"`
	// OrderStart is the first numeric suffix of the generated range.
	OrderStart int `mapstructure:"order_start" default:"3161"`
	// OrderEnd is the last numeric suffix of the generated range (inclusive).
	OrderEnd int `mapstructure:"order_end" default:"5000"`
	// Delay is the fixed pause between orders, in seconds.
	Delay int `mapstructure:"delay" default:"2"`
	// ProgressFile is the checkpoint location for resumable runs.
	ProgressFile string `mapstructure:"progress_file" default:"tracking_progress.json" required:"true"`
	// ResultsFile is the tabular snapshot location (.csv or .xlsx).
	ResultsFile string `mapstructure:"results_file" default:"order_results.csv" required:"true"`
}

// AuditConfig holds per-attempt dump settings.
type AuditConfig struct {
	// Enabled turns on JSON dumps of every captured results page.
	Enabled bool `mapstructure:"enabled"`
	// Dir is the directory receiving dumps and screenshots.
	Dir string `mapstructure:"dir" default:"audit"`
	// Screenshots captures a PNG of the page on every attempt.
	Screenshots bool `mapstructure:"screenshots"`
	// SaveHTML includes the full page HTML in each dump.
	SaveHTML bool `mapstructure:"save_html"`
}

// ProxyConfig holds upstream proxy settings for the browser session.
type ProxyConfig struct {
	// Enabled routes browser traffic through the upstream proxy.
	Enabled bool `mapstructure:"enabled"`
	// Hostname is the upstream proxy host.
	Hostname string `mapstructure:"hostname"`
	// Port is the upstream proxy port.
	Port int `mapstructure:"port"`
	// Username authenticates against the upstream proxy.
	Username string `mapstructure:"username"`
	// Password authenticates against the upstream proxy.
	Password string `mapstructure:"password"`
}

// RedisConfig holds the optional Redis progress store settings.
type RedisConfig struct {
	// Enabled stores progress in Redis instead of the local filesystem.
	Enabled bool `mapstructure:"enabled"`
	// URL is the Redis connection string (redis://[:password@]host[:port][/db]).
	URL string `mapstructure:"url" default:"redis://localhost:6379/0"`
	// Key is the Redis key holding the progress record.
	Key string `mapstructure:"key" default:"sweeper:progress"`
}

// ServerConfig holds the status server settings.
type ServerConfig struct {
	// Port is the port where the status server listens.
	Port int `mapstructure:"port" default:"8080"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	// Environment selects the log encoding (development, production).
	Environment string `mapstructure:"environment" default:"production"`
	// Level defines the logging verbosity (debug, info, warn, error).
	Level string `mapstructure:"level" default:"info"`
}

// WaitDuration returns the element wait timeout as a duration.
func (b BrowserConfig) WaitDuration() time.Duration {
	return time.Duration(b.WaitTimeout) * time.Second
}

// Dimensions parses the "width,height" window size.
func (b BrowserConfig) Dimensions() (int, int, error) {
	parts := strings.SplitN(b.WindowSize, ",", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid window size %q", b.WindowSize)
	}
	w, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid window width %q", parts[0])
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid window height %q", parts[1])
	}
	return w, h, nil
}

// DelayDuration returns the inter-order pause as a duration.
func (b BatchConfig) DelayDuration() time.Duration {
	return time.Duration(b.Delay) * time.Second
}

// Load loads configuration from an optional config.json in path plus
// environment variables (dot keys become underscored upper-case names,
// e.g. ORDER_DETAILS_ORDER_NUMBER). A missing file falls back to the
// tag defaults; a present file is validated against the embedded schema.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		raw, err := os.ReadFile(v.ConfigFileUsed())
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := validateSchema(raw); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var config Config

	if err := processTags(v, reflect.TypeOf(config), ""); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config, ""); err != nil {
		return nil, err
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// validate checks value ranges the schema cannot cover for env-sourced values.
func (c *Config) validate() error {
	if c.Browser.WaitTimeout < 1 {
		return fmt.Errorf("browser_settings.wait_timeout must be at least 1 second, got %d", c.Browser.WaitTimeout)
	}
	if _, _, err := c.Browser.Dimensions(); err != nil {
		return fmt.Errorf("browser_settings.window_size: %w", err)
	}
	if c.Batch.OrderStart > c.Batch.OrderEnd {
		return fmt.Errorf("batch.order_start %d exceeds batch.order_end %d", c.Batch.OrderStart, c.Batch.OrderEnd)
	}
	if c.Batch.Delay < 0 {
		return fmt.Errorf("batch.delay must not be negative, got %d", c.Batch.Delay)
	}
	return nil
}

// processTags walks the struct fields, binds each dotted key to its
// environment variable and sets default values in Viper.
func processTags(v *viper.Viper, t reflect.Type, prefix string) error {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		key := field.Tag.Get("mapstructure")
		if key == "" {
			continue
		}

		full := key
		if prefix != "" {
			full = prefix + "." + key
		}

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, field.Type, full); err != nil {
				return err
			}
			continue
		}

		if err := v.BindEnv(full); err != nil {
			return fmt.Errorf("failed to bind %s: %w", full, err)
		}

		if defaultValue := field.Tag.Get("default"); defaultValue != "" {
			v.SetDefault(full, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}, prefix string) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		key := field.Tag.Get("mapstructure")
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface(), full); err != nil {
				return err
			}
			continue
		}

		if field.Tag.Get("required") == "true" && isZero(val.Field(i)) {
			return fmt.Errorf("missing required configuration: %s", full)
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
