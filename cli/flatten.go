package cli

import (
	"fmt"

	"github.com/compozy/tagflat/cli/helpers"
	"github.com/compozy/tagflat/engine/rewrite"
	"github.com/compozy/tagflat/pkg/config"
	"github.com/compozy/tagflat/pkg/flatten"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// newProcessor wires the file driver from the resolved configuration.
func newProcessor(cfg *config.Config, fs afero.Fs, dryRun bool) (*rewrite.Processor, error) {
	discoverer, err := rewrite.NewDiscoverer(fs, cfg.Walk.Exclude)
	if err != nil {
		return nil, err
	}
	flattener := flatten.New(
		flatten.WithExcludedTags(cfg.Flatten.ExcludedTags...),
		flatten.WithQuoteAware(cfg.Flatten.QuoteAware),
	)
	return rewrite.NewProcessor(rewrite.NewFSStore(fs), discoverer, flattener, rewrite.Options{
		Extensions: cfg.Flatten.Extensions,
		Workers:    cfg.Walk.Workers,
		DryRun:     dryRun,
	}), nil
}

func runFlatten(cmd *cobra.Command, paths []string) error {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	processor, err := newProcessor(cfg, afero.NewOsFs(), false)
	if err != nil {
		return err
	}
	report, err := processor.Run(ctx, paths)
	if err != nil {
		return err
	}
	helpers.NewPrinter(cmd.OutOrStdout(), cfg.Log.JSON).Summary(report)
	return strictError(cmd, report)
}

// strictError turns per-file failures into an error when --strict is set.
func strictError(cmd *cobra.Command, report *rewrite.Report) error {
	strict, err := cmd.Flags().GetBool("strict")
	if err != nil {
		return fmt.Errorf("failed to get strict flag: %w", err)
	}
	if n := report.Count(rewrite.StatusFailed); strict && n > 0 {
		return helpers.NewBatchError(helpers.ErrFailedFiles, n)
	}
	return nil
}

// CheckCmd reports files that would change without writing them.
func CheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [paths...]",
		Short: "List files that need flattening without modifying them",
		Long: `Check runs the flattener in dry-run mode. It lists every file that
would change and exits with status 1 when there is at least one.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return usageError(cmd)
			}
			return runCheck(cmd, args)
		},
	}
}

func runCheck(cmd *cobra.Command, paths []string) error {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	processor, err := newProcessor(cfg, afero.NewReadOnlyFs(afero.NewOsFs()), true)
	if err != nil {
		return err
	}
	report, err := processor.Run(ctx, paths)
	if err != nil {
		return err
	}
	printer := helpers.NewPrinter(cmd.OutOrStdout(), cfg.Log.JSON)
	pending := report.Paths(rewrite.StatusFlattened)
	printer.Paths("Would flatten:", pending)
	printer.Summary(report)
	if len(pending) > 0 {
		return helpers.NewBatchError(helpers.ErrCheckViolations, len(pending))
	}
	return strictError(cmd, report)
}
