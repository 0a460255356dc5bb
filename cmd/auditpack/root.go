package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/reglet-dev/auditpack/internal/infrastructure/logging"
)

// envPrefix scopes environment overrides, e.g. AUDITPACK_OUTPUT_FORMAT.
const envPrefix = "AUDITPACK"

// globalOptions holds the persistent flags.
type globalOptions struct {
	configFile string
	verbose    bool
	logFormat  string
}

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "auditpack",
		Short: "Inspect, lint and package compliance profiles",
		Long: `auditpack works on compliance profiles: directories holding profile
metadata (profile.yaml) and control definitions (controls/*.yaml).

  info     show the profile's controls grouped by file
  check    lint the profile and report errors and warnings
  archive  package the profile into a zip or tar.gz after a passing check`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := initConfig(opts); err != nil {
				return err
			}
			return setupLogging(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "",
		"config file (default is $HOME/.auditpack/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", string(logging.FormatText),
		"log format: "+strings.Join(logging.AllFormats, ", "))

	rootCmd.AddCommand(
		newInfoCmd(),
		newCheckCmd(),
		newArchiveCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// initConfig loads configuration from the config file and environment.
func initConfig(opts *globalOptions) error {
	viper.Reset()

	if opts.configFile != "" {
		viper.SetConfigFile(opts.configFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".auditpack"))
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.configFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

func setupLogging(cmd *cobra.Command, opts *globalOptions) error {
	verbose := opts.verbose
	if !cmd.Flags().Changed("verbose") && viper.IsSet("verbose") {
		verbose = viper.GetBool("verbose")
	}
	format := stringSetting(cmd, "log-format", "log_format", opts.logFormat)

	logger, err := logging.NewLogger(cmd.ErrOrStderr(), verbose, format)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	if used := viper.ConfigFileUsed(); used != "" {
		logger.Debug("using config file", "file", used)
	}
	return nil
}
