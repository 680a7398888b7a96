// Package cli defines the ripped command line: the default command opens the
// replay browser window, subcommands work headless.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/slpkit/ripped/internal/config"
	"github.com/slpkit/ripped/internal/logger"
)

// options is shared by all commands of one invocation
type options struct {
	version string
	v       *viper.Viper
	log     zerolog.Logger
}

// NewRootCommand builds the command tree
func NewRootCommand(version string) *cobra.Command {
	o := &options{version: version, v: viper.New(), log: logger.Nop()}

	rootCmd := &cobra.Command{
		Use:           "ripped",
		Short:         "Browse Slippi replay folders",
		Long:          "ripped lists the .slp replays of a folder with their stage, characters and name tags.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.init(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI(o)
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config file (default .ripped.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	_ = o.v.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(newScanCommand(o), newVersionCommand(o))
	return rootCmd
}

// Execute runs the command line and exits non-zero on failure
func Execute(version string) {
	if err := NewRootCommand(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// init reads the config file and environment and creates the logger
func (o *options) init(cmd *cobra.Command) error {
	if cfgFile, _ := cmd.Flags().GetString("config"); cfgFile != "" {
		o.v.SetConfigFile(cfgFile)
	} else {
		o.v.SetConfigName(".ripped")
		o.v.SetConfigType("yaml")
		o.v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			o.v.AddConfigPath(home)
		}
	}

	o.v.SetEnvPrefix(config.EnvPrefix)
	o.v.AutomaticEnv()

	if err := o.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg, err := config.Load(o.v)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	o.log = logger.NewConsole(logger.Level(cfg.Verbose))
	if used := o.v.ConfigFileUsed(); used != "" {
		o.log.Debug().Str("file", used).Msg("loaded config")
	}
	return nil
}
