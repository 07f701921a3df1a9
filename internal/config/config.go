package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config is the full application configuration.
type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	Diff    DiffConfig    `mapstructure:"diff"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// StorageConfig holds snapshot persistence settings.
type StorageConfig struct {
	SnapshotDir string        `mapstructure:"snapshot_dir"`
	KeepLast    int           `mapstructure:"keep_last"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`
}

// DiffConfig holds comparison defaults; CLI flags override them.
type DiffConfig struct {
	IgnoreFields   []string `mapstructure:"ignore_fields"`
	ExtendedFields bool     `mapstructure:"extended_fields"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

func setDefaults() {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	viper.SetDefault("storage.snapshot_dir", filepath.Join(home, ".metriclens", "snapshots"))
	viper.SetDefault("storage.keep_last", 10)
	viper.SetDefault("storage.cache_ttl", 5*time.Minute)
	viper.SetDefault("diff.ignore_fields", []string{})
	viper.SetDefault("diff.extended_fields", false)
	viper.SetDefault("logging.level", "info")
}

// Load reads configuration from the given file, or from the default search
// path ($HOME/.metriclens/config.yaml) when cfgFile is empty. A missing
// config file is fine; defaults apply.
func Load(cfgFile string) (*Config, error) {
	setDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".metriclens"))
		}
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}
	viper.SetEnvPrefix("METRICLENS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}
