package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	// LogMode enables GORM query logging.
	LogMode bool `mapstructure:"log_mode"`
	// DefaultName is the sqlite file (without extension) used when the
	// registry holds no current profile yet.
	DefaultName string `mapstructure:"default_name"`
}

// DirsConfig holds the fixed directory layout for application files.
type DirsConfig struct {
	Data    string `mapstructure:"data"`
	Config  string `mapstructure:"config"`
	Backups string `mapstructure:"backups"`
	Exports string `mapstructure:"exports"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Dirs     DirsConfig     `mapstructure:"dirs"`
}

// RegistryPath is where the profile registry file lives.
func (c *Config) RegistryPath() string {
	return filepath.Join(c.Dirs.Config, "database_configs.json")
}

// Load loads configuration from the given file path (e.g. "config.yaml").
// If path is empty, it defaults to "config.yaml" in the current working
// directory. Environment variables with the BF_ prefix override values.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.address", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("database.default_name", "budget_famiglia")
	v.SetDefault("dirs.data", "data")
	v.SetDefault("dirs.config", "config")
	v.SetDefault("dirs.backups", "backups")
	v.SetDefault("dirs.exports", "exports")

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("BF")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing file falls back to defaults; anything else is fatal.
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if !notFound && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
