package config

import (
	"github.com/spf13/viper"

	"github.com/slpkit/ripped/internal/library"
)

// EnvPrefix prefixes environment overrides, e.g. RIPPED_FOLDER
const EnvPrefix = "RIPPED"

// CLI holds the configuration of headless commands.
// Values are populated from .ripped.yaml, RIPPED_* env vars, and flags.
type CLI struct {
	Folder    string `mapstructure:"folder"`
	Recursive bool   `mapstructure:"recursive"`
	JSON      bool   `mapstructure:"json"`
	Verbose   bool   `mapstructure:"verbose"`
	Parallel  int    `mapstructure:"parallel"`
}

// Load reads configuration from v, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load(v *viper.Viper) (CLI, error) {
	v.SetDefault("folder", "")
	v.SetDefault("recursive", false)
	v.SetDefault("json", false)
	v.SetDefault("verbose", false)
	v.SetDefault("parallel", library.DefaultParallel)

	var cfg CLI
	if err := v.Unmarshal(&cfg); err != nil {
		return CLI{}, err
	}
	if cfg.Parallel < library.MinParallel || cfg.Parallel > library.MaxParallel {
		cfg.Parallel = library.DefaultParallel
	}
	return cfg, nil
}
