package main

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/reglet-dev/auditpack/internal/application/dto"
	"github.com/reglet-dev/auditpack/internal/domain/entities"
)

// ProfileOptions contains flags shared by every command that loads a profile.
type ProfileOptions struct {
	ID       string
	Controls []string
}

// RegisterFlags adds the profile flags to a cobra command.
func (opts *ProfileOptions) RegisterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&opts.ID, "id", "", "Override the profile name from metadata")
	cmd.Flags().StringSliceVar(&opts.Controls, "controls", nil,
		"Only load these control ids (comma-separated)")
}

// LoadOptions converts the flags into aggregator options.
func (opts *ProfileOptions) LoadOptions() dto.LoadOptions {
	return dto.LoadOptions{
		ID:        opts.ID,
		Discovery: dto.DiscoveryOptions{Controls: opts.Controls},
	}
}

// OutputOptions contains the formatting flags.
type OutputOptions struct {
	Format  string
	OutFile string
	NoColor bool
}

// RegisterFlags adds output flags to a cobra command.
func (opts *OutputOptions) RegisterFlags(cmd *cobra.Command, formats []string) {
	cmd.Flags().StringVar(&opts.Format, "format", "",
		"Output format: "+strings.Join(formats, ", ")+" (default from config, else table)")
	cmd.Flags().StringVarP(&opts.OutFile, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().BoolVar(&opts.NoColor, "no-color", false, "Disable colored table output")
}

// ResolveFormat picks the flag, then AUDITPACK_OUTPUT_FORMAT or the config
// file, then fallback, and checks it against the supported formats.
func (opts *OutputOptions) ResolveFormat(cmd *cobra.Command, fallback string, formats []string) (string, error) {
	format := stringSetting(cmd, "format", "output.format", fallback)
	if !slices.Contains(formats, format) {
		return "", fmt.Errorf("invalid format: %s (valid: %s)", format, strings.Join(formats, ", "))
	}
	return format, nil
}

// Open returns the output writer and a close function.
func (opts *OutputOptions) Open(cmd *cobra.Command) (io.Writer, func() error, error) {
	if opts.OutFile == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	//nolint:gosec // G304: output path is chosen by the user
	f, err := os.Create(opts.OutFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f.Close, nil
}

// Color reports whether table output should be colored.
func (opts *OutputOptions) Color(w io.Writer) bool {
	if opts.NoColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isTerminal(w)
}

// stringSetting resolves a setting from its flag when set, then viper
// (environment and config file), then fallback.
func stringSetting(cmd *cobra.Command, flag, key, fallback string) string {
	if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
		return f.Value.String()
	}
	if v := viper.GetString(key); v != "" {
		return v
	}
	return fallback
}

// boolSetting resolves a boolean setting like stringSetting.
func boolSetting(cmd *cobra.Command, flag, key string, fallback bool) bool {
	if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
		v, _ := cmd.Flags().GetBool(flag)
		return v
	}
	if viper.IsSet(key) {
		return viper.GetBool(key)
	}
	return fallback
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	//nolint:gosec // G115: file descriptors fit in int
	return ok && term.IsTerminal(int(f.Fd()))
}

// profilePath returns the positional profile argument, defaulting to ".".
func profilePath(args []string) string {
	if len(args) == 0 {
		return "."
	}
	return args[0]
}

// loadProfile aggregates the profile named by args.
func loadProfile(ctx *CommandContext, args []string, opts *ProfileOptions) (*entities.Profile, error) {
	return ctx.Container.ProfileAggregator().Load(ctx.Context, profilePath(args), opts.LoadOptions())
}
