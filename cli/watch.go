package cli

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/compozy/tagflat/cli/helpers"
	"github.com/compozy/tagflat/engine/rewrite"
	"github.com/compozy/tagflat/engine/watch"
	"github.com/compozy/tagflat/pkg/config"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// WatchCmd flattens paths and keeps flattening them as files change.
func WatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Flatten files and keep flattening them as they change",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return usageError(cmd)
			}
			return runWatch(cmd, args)
		},
	}
	cmd.Flags().Duration("debounce", 200*time.Millisecond, "Quiet period before changed files are processed")
	cmd.Flags().Duration("max-wait", 2*time.Second, "Longest delay before changed files are processed")
	return cmd
}

func runWatch(cmd *cobra.Command, paths []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	cfg := config.FromContext(ctx)
	processor, err := newProcessor(cfg, afero.NewOsFs(), false)
	if err != nil {
		return err
	}
	printer := helpers.NewPrinter(cmd.OutOrStdout(), cfg.Log.JSON)
	w := watch.New(processor, watch.Options{
		Debounce: cfg.Watch.Debounce,
		MaxWait:  cfg.Watch.MaxWait,
		OnReport: func(report *rewrite.Report) {
			printer.Summary(report)
		},
	})
	return w.Run(ctx, paths)
}
