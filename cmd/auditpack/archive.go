package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/reglet-dev/auditpack/internal/application/dto"
	"github.com/reglet-dev/auditpack/internal/domain/values"
)

// errArchiveSkipped is returned when the packager declined to write.
var errArchiveSkipped = errors.New("archive not created")

type archiveOptions struct {
	profile      ProfileOptions
	outputDir    string
	zip          bool
	tar          bool
	overwrite    bool
	ignoreErrors bool
	interactive  bool
}

// confirmOverwrite asks before replacing an existing archive.
var confirmOverwrite = func(path string) (bool, error) {
	overwrite := false
	err := huh.NewConfirm().
		Title("Archive already exists").
		Description(path).
		Affirmative("Overwrite").
		Negative("Keep").
		Value(&overwrite).
		Run()
	return overwrite, err
}

// stdinIsTerminal is replaced in tests.
var stdinIsTerminal = func() bool {
	return isTerminal(os.Stdin)
}

func newArchiveCmd() *cobra.Command {
	opts := &archiveOptions{}

	cmd := &cobra.Command{
		Use:   "archive [profile-dir]",
		Short: "Package a profile into an archive",
		Long: `Check the profile and, if the check passes, package every file of the
profile directory into <name>.tar.gz (or <name>.zip with --zip). The name
is the profile name, lowercased, with whitespace replaced by '-' and other
special characters by '_'.

An existing archive is kept unless --overwrite is given, or --interactive
is given and the replacement is confirmed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: withContainer(func(ctx *CommandContext, cmd *cobra.Command, args []string) error {
			return runArchive(ctx, cmd, args, opts)
		}),
	}

	opts.profile.RegisterFlags(cmd)
	cmd.Flags().StringVar(&opts.outputDir, "output-dir", "", "Directory for the archive (default: working directory)")
	cmd.Flags().BoolVar(&opts.zip, "zip", false, "Write a zip archive")
	cmd.Flags().BoolVar(&opts.tar, "tar", false, "Write a tar.gz archive")
	cmd.Flags().BoolVar(&opts.overwrite, "overwrite", false, "Replace an existing archive")
	cmd.Flags().BoolVar(&opts.ignoreErrors, "ignore-errors", false, "Archive even when the check fails")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "Ask before replacing an existing archive")
	cmd.MarkFlagsMutuallyExclusive("zip", "tar")
	cmd.MarkFlagsMutuallyExclusive("overwrite", "interactive")

	return cmd
}

func runArchive(ctx *CommandContext, cmd *cobra.Command, args []string, opts *archiveOptions) error {
	sysCfg := ctx.Container.SystemConfig()

	archiveOpts := dto.ArchiveOptions{
		OutputDir:    stringSetting(cmd, "output-dir", "archive.output_dir", sysCfg.Archive.OutputDir),
		Zip:          opts.zip,
		Overwrite:    opts.overwrite,
		IgnoreErrors: opts.ignoreErrors,
	}
	if !opts.zip && !opts.tar {
		format, ok := values.ParseArchiveFormat(stringSetting(cmd, "", "archive.format", sysCfg.Archive.Format))
		if !ok {
			return fmt.Errorf("invalid archive format (expected zip or tar.gz)")
		}
		archiveOpts.Zip = format == values.ArchiveFormatZip
	}

	profile, err := loadProfile(ctx, args, &opts.profile)
	if err != nil {
		return err
	}

	packager := ctx.Container.ArchivePackager()
	dest, err := packager.Destination(profile, archiveOpts)
	if err != nil {
		return err
	}

	if opts.interactive && stdinIsTerminal() {
		if _, statErr := os.Stat(dest); statErr == nil {
			overwrite, err := confirmOverwrite(dest)
			if err != nil {
				return fmt.Errorf("confirmation aborted: %w", err)
			}
			archiveOpts.Overwrite = overwrite
		}
	}

	ok, err := packager.Archive(ctx.Context, profile, archiveOpts)
	if err != nil {
		return err
	}
	if !ok {
		return errArchiveSkipped
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), dest)
	return nil
}
