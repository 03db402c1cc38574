package config

import (
	"fmt"
	"reflect"
	"strings"

	"timesheet-sync/core/database"
	"timesheet-sync/core/logger"
	"timesheet-sync/core/server"
	"timesheet-sync/core/storage"
	"timesheet-sync/feature/calendar"
	"timesheet-sync/feature/sheet"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the object storage (e.g., S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the database connection.
	Database database.Config `mapstructure:"database"`
	// Sheet selects the timesheet and describes its columns.
	Sheet sheet.Config `mapstructure:"sheet"`
	// Calendar configures the event feeds.
	Calendar calendar.Config `mapstructure:"calendar"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// A missing .env is normal in production.
	_ = godotenv.Overload(envPath)

	v := viper.New()

	bindValues(v, Config{}, "")

	// SHEET_LAYOUT_HEADER_ROWS -> sheet.layout.header_rows
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks the settings every command depends on.
func (c *Config) Validate() error {
	if !c.Sheet.IsValidBackend() {
		return fmt.Errorf("invalid sheet backend %q", c.Sheet.Backend)
	}
	if err := c.Sheet.Layout.Validate(); err != nil {
		return fmt.Errorf("invalid sheet layout: %w", err)
	}
	if _, err := c.Calendar.LoadLocation(); err != nil {
		return err
	}
	if c.Server.IsScheduled() {
		if _, err := c.Server.Schedule(); err != nil {
			return err
		}
	}
	return nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv.
		// Slice defaults are comma separated and split by viper's decode hook.
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
