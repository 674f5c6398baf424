// Package config loads pipeline configuration from config.yaml, .env, and
// environment variables. No credential is ever hardcoded.
package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the full pipeline configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Sheets   SheetsConfig   `mapstructure:"sheets"`
	ETL      ETLConfig      `mapstructure:"etl"`
	Log      LogConfig      `mapstructure:"log"`
}

// DatabaseConfig configures the Postgres connection pool.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxConns int32  `mapstructure:"max_conns"`
}

// SheetsConfig configures the Google Sheets source.
type SheetsConfig struct {
	SpreadsheetID string `mapstructure:"spreadsheet_id"`
	SheetName     string `mapstructure:"sheet_name"`
	ReadRange     string `mapstructure:"read_range"`
	APIKey        string `mapstructure:"api_key"`
}

// ETLConfig configures pipeline behavior.
type ETLConfig struct {
	BatchSize     int               `mapstructure:"batch_size"`
	MaxRetries    int               `mapstructure:"max_retries"`
	ColumnMapping map[string]string `mapstructure:"column_mapping"`
}

// LogConfig configures logging output.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from the given directory (config.yaml), layered
// under SHEETGUARD_* environment variables. A local .env file is loaded
// first when present so development credentials stay out of the shell.
func Load(configPath string) (Config, error) {
	// Best effort; production uses real environment variables.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix("SHEETGUARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file is fine; defaults plus env vars apply.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.dbname", "etl_db")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 5)

	v.SetDefault("sheets.sheet_name", "Students")

	v.SetDefault("etl.batch_size", 100)
	v.SetDefault("etl.max_retries", 3)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Bind nested keys so SHEETGUARD_DATABASE_USER et al. resolve even
	// without a config file.
	for _, key := range []string{
		"database.host", "database.port", "database.user",
		"database.password", "database.dbname", "database.sslmode",
		"sheets.spreadsheet_id", "sheets.sheet_name", "sheets.read_range",
		"sheets.api_key",
		"etl.batch_size", "etl.max_retries",
		"log.level", "log.format",
	} {
		_ = v.BindEnv(key)
	}
}

func (c Config) validate() error {
	var missing []string
	if c.Database.User == "" {
		missing = append(missing, "database.user")
	}
	if c.Database.Password == "" {
		missing = append(missing, "database.password")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	if c.ETL.BatchSize <= 0 {
		return fmt.Errorf("etl.batch_size must be positive, got %d", c.ETL.BatchSize)
	}
	return nil
}
