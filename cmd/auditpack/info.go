package main

import (
	"github.com/spf13/cobra"

	"github.com/reglet-dev/auditpack/internal/application/dto"
	"github.com/reglet-dev/auditpack/internal/infrastructure/output"
)

type infoOptions struct {
	profile ProfileOptions
	output  OutputOptions
	filter  string
}

func newInfoCmd() *cobra.Command {
	opts := &infoOptions{}

	cmd := &cobra.Command{
		Use:   "info [profile-dir]",
		Short: "Show a profile's controls grouped by file",
		Long: `Load a profile and print its metadata and controls, grouped by the file
that declares them. Checks are omitted and impacts are clamped to [0, 1].

Filtering:
  --filter "impact >= 0.7"              Only controls with high impact
  --filter "group startsWith 'controls/ssh'"
  --filter "severity in ['high', 'critical']"`,
		Args: cobra.MaximumNArgs(1),
		RunE: withContainer(func(ctx *CommandContext, cmd *cobra.Command, args []string) error {
			return runInfo(ctx, cmd, args, opts)
		}),
	}

	opts.profile.RegisterFlags(cmd)
	opts.output.RegisterFlags(cmd, output.NewFormatterFactory().SupportedInfoFormats())
	cmd.Flags().StringVar(&opts.filter, "filter", "",
		"Filter expression over id, title, desc, impact, severity, group")

	return cmd
}

func runInfo(ctx *CommandContext, cmd *cobra.Command, args []string, opts *infoOptions) error {
	factory := ctx.Container.Formatters()
	format, err := opts.output.ResolveFormat(cmd, ctx.Container.SystemConfig().Output.Format, factory.SupportedInfoFormats())
	if err != nil {
		return err
	}

	profile, err := loadProfile(ctx, args, &opts.profile)
	if err != nil {
		return err
	}

	info, err := ctx.Container.ProfileAggregator().Info(profile, dto.InfoRequest{Filter: opts.filter})
	if err != nil {
		return err
	}

	w, closeOut, err := opts.output.Open(cmd)
	if err != nil {
		return err
	}
	defer func() {
		_ = closeOut() // Best-effort cleanup
	}()

	formatter, err := factory.CreateInfo(format, w, output.Options{Indent: true, Color: opts.output.Color(w)})
	if err != nil {
		return err
	}
	return formatter.FormatInfo(info)
}
