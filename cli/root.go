package cli

import (
	"fmt"

	"github.com/compozy/tagflat/cli/helpers"
	"github.com/compozy/tagflat/pkg/config"
	"github.com/spf13/cobra"
)

// RootCmd builds the tagflat command tree. The root command flattens the
// given paths in place.
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tagflat [paths...]",
		Short: "Collapse multi-line JSX tag attributes onto one line",
		Long: `tagflat rewrites opening tags whose attributes span several lines so
that every attribute sits on the tag's first line. Directories are walked
recursively and only .jsx and .tsx files are rewritten by default.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return SetupGlobalConfig(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return usageError(cmd)
			}
			return runFlatten(cmd, args)
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "Path to the config file (default ./"+config.DefaultConfigFile+" when present)")
	flags.String("env-file", ".env", "Path to an environment file with TAGFLAT_ variables")
	flags.String("log-level", "info", "Log level (debug, info, warn, error, disabled)")
	flags.Bool("log-json", false, "Emit logs as JSON")
	flags.Bool("log-source", false, "Include source locations in logs")
	flags.StringSlice("ext", nil, "File extensions to rewrite (default .jsx,.tsx)")
	flags.StringSlice("exclude", nil, "Glob patterns for paths to skip while walking directories")
	flags.StringSlice("exclude-tag", nil, "Tag names never rewritten (default svg,path,g)")
	flags.Bool("quote-aware", false, "Ignore '>' inside quoted values and {...} expressions")
	flags.Int("workers", 0, "Number of files processed in parallel")
	flags.Bool("strict", false, "Exit with an error when any file fails")

	root.AddCommand(
		CheckCmd(),
		WatchCmd(),
		VersionCmd(),
		ConfigCmd(),
	)

	return root
}

// usageError prints the command usage on stderr and returns ErrNoPaths.
func usageError(cmd *cobra.Command) error {
	fmt.Fprint(cmd.ErrOrStderr(), cmd.UsageString())
	return helpers.ErrNoPaths
}
