package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/compozy/tagflat/cli/helpers"
	"github.com/compozy/tagflat/pkg/config"
	"github.com/compozy/tagflat/pkg/logger"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// ConfigCmd groups configuration diagnostics.
func ConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration diagnostics",
	}
	cmd.AddCommand(ConfigShowCmd())
	return cmd
}

// ConfigShowCmd prints the effective configuration.
func ConfigShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration values",
		Long: `Display the effective configuration after defaults, the YAML file,
environment variables and flags have been applied. Supports JSON, YAML and
table output formats.`,
		Args: cobra.NoArgs,
		RunE: runConfigShow,
	}
	cmd.Flags().StringP("format", "f", "table", "Output format (json, yaml, table)")
	cmd.Flags().Bool("sources", false, "Show where each value came from")
	return cmd
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	log := logger.FromContext(ctx)
	log.Debug("executing config show command")

	value, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format, ok := helpers.ParseOutputFormat(value)
	if !ok {
		return fmt.Errorf("unsupported format: %s", value)
	}
	showSources, err := cmd.Flags().GetBool("sources")
	if err != nil {
		return fmt.Errorf("failed to get sources flag: %w", err)
	}
	var sources map[string]config.SourceType
	if service := config.ServiceFromContext(ctx); service != nil && showSources {
		sources = make(map[string]config.SourceType)
		for key := range flattenConfig(config.FromContext(ctx)) {
			sources[key] = service.GetSource(key)
		}
	}
	return formatConfigOutput(cmd.OutOrStdout(), config.FromContext(ctx), sources, format, showSources)
}

// formatConfigOutput formats and outputs configuration based on requested format
func formatConfigOutput(
	w io.Writer,
	cfg *config.Config,
	sources map[string]config.SourceType,
	format helpers.OutputFormat,
	showSources bool,
) error {
	output := map[string]any{"config": flattenConfig(cfg)}
	if showSources && len(sources) > 0 {
		output["sources"] = sources
	}
	switch format {
	case helpers.OutputFormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(output)
	case helpers.OutputFormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		return encoder.Encode(output)
	default:
		return outputTable(w, cfg, sources, showSources)
	}
}

// outputTable outputs configuration as a table
func outputTable(w io.Writer, cfg *config.Config, sources map[string]config.SourceType, showSources bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	flatMap := flattenConfig(cfg)
	keys := make([]string, 0, len(flatMap))
	for k := range flatMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if showSources {
		fmt.Fprintln(tw, "KEY\tVALUE\tSOURCE\tENV")
		fmt.Fprintln(tw, "---\t-----\t------\t---")
	} else {
		fmt.Fprintln(tw, "KEY\tVALUE")
		fmt.Fprintln(tw, "---\t-----")
	}
	for _, key := range keys {
		if !showSources {
			fmt.Fprintf(tw, "%s\t%s\n", key, flatMap[key])
			continue
		}
		source := sources[key]
		if source == "" {
			source = config.SourceDefault
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", key, flatMap[key], source, config.EnvVarFor(key))
	}
	return tw.Flush()
}

// flattenConfig converts nested config to flat key-value map
func flattenConfig(cfg *config.Config) map[string]string {
	return map[string]string{
		"flatten.extensions":    strings.Join(cfg.Flatten.Extensions, ","),
		"flatten.excluded_tags": strings.Join(cfg.Flatten.ExcludedTags, ","),
		"flatten.quote_aware":   strconv.FormatBool(cfg.Flatten.QuoteAware),
		"walk.exclude":          strings.Join(cfg.Walk.Exclude, ","),
		"walk.workers":          strconv.Itoa(cfg.Walk.Workers),
		"watch.debounce":        cfg.Watch.Debounce.String(),
		"watch.max_wait":        cfg.Watch.MaxWait.String(),
		"log.level":             cfg.Log.Level,
		"log.json":              strconv.FormatBool(cfg.Log.JSON),
		"log.source":            strconv.FormatBool(cfg.Log.Source),
	}
}
