package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reglet-dev/auditpack/internal/infrastructure/output"
)

type checkOptions struct {
	profile ProfileOptions
	output  OutputOptions
	strict  bool
}

func newCheckCmd() *cobra.Command {
	opts := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "check [profile-dir]",
		Short: "Lint a profile",
		Long: `Load a profile and lint its metadata, layout and control definitions.
All problems are reported; the command fails when any error is found, or
when warnings are found and --strict is set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: withContainer(func(ctx *CommandContext, cmd *cobra.Command, args []string) error {
			return runCheck(ctx, cmd, args, opts)
		}),
	}

	opts.profile.RegisterFlags(cmd)
	opts.output.RegisterFlags(cmd, output.NewFormatterFactory().SupportedReportFormats())
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Treat warnings as failures")

	return cmd
}

func runCheck(ctx *CommandContext, cmd *cobra.Command, args []string, opts *checkOptions) error {
	factory := ctx.Container.Formatters()
	format, err := opts.output.ResolveFormat(cmd, ctx.Container.SystemConfig().Output.Format, factory.SupportedReportFormats())
	if err != nil {
		return err
	}

	profile, err := loadProfile(ctx, args, &opts.profile)
	if err != nil {
		return err
	}

	valid, report := ctx.Container.CheckProfileUseCase().Execute(profile)

	w, closeOut, err := opts.output.Open(cmd)
	if err != nil {
		return err
	}
	defer func() {
		_ = closeOut() // Best-effort cleanup
	}()

	formatter, err := factory.CreateReport(format, w, output.Options{
		Indent:  true,
		Color:   opts.output.Color(w),
		BaseDir: profile.Root,
	})
	if err != nil {
		return err
	}
	if err := formatter.Format(report); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if !valid {
		return fmt.Errorf("profile check failed with %d errors", len(report.Errors))
	}
	if boolSetting(cmd, "strict", "check.strict", opts.strict) && report.HasWarnings() {
		return fmt.Errorf("profile check failed with %d warnings (strict mode)", len(report.Warnings))
	}
	return nil
}
