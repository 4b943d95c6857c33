package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/compozy/tagflat/pkg/config"
	"github.com/compozy/tagflat/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// SetupGlobalConfig loads the configuration for cmd and stores it, together
// with a logger built from it, in the command context.
func SetupGlobalConfig(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := loadEnvFile(cmd); err != nil {
		return err
	}
	flags := make(map[string]any)
	if err := extractCLIFlags(cmd, flags); err != nil {
		return err
	}
	service := config.NewService()
	cfg, err := service.Load(ctx, configSources(cmd, flags)...)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	log := logger.SetupLogger(cfg.Log.Level, cfg.Log.JSON, cfg.Log.Source, cmd.ErrOrStderr())
	ctx = logger.ContextWithLogger(ctx, log)
	ctx = config.ContextWithConfig(ctx, cfg)
	ctx = config.ContextWithService(ctx, service)
	cmd.SetContext(ctx)
	log.Debug("Configuration loaded", "workers", cfg.Walk.Workers, "extensions", cfg.Flatten.Extensions)
	return nil
}

// configSources orders the sources from lowest to highest precedence.
func configSources(cmd *cobra.Command, flags map[string]any) []config.Source {
	sources := make([]config.Source, 0, 3)
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		sources = append(sources, config.NewYAMLProvider(path, true))
	} else {
		sources = append(sources, config.NewYAMLProvider(config.DefaultConfigFile, false))
	}
	return append(sources, config.NewEnvProvider(), config.NewCLIProvider(flags))
}

// extractCLIFlags copies the flags the user set explicitly into flags, keyed
// by flag name.
func extractCLIFlags(cmd *cobra.Command, flags map[string]any) error {
	for name := range config.FlagPaths {
		flag := cmd.Flags().Lookup(name)
		if flag == nil || !flag.Changed {
			continue
		}
		value, err := flagValue(cmd.Flags(), flag)
		if err != nil {
			return fmt.Errorf("failed to read flag --%s: %w", name, err)
		}
		flags[name] = value
	}
	return nil
}

func flagValue(set *pflag.FlagSet, flag *pflag.Flag) (any, error) {
	switch flag.Value.Type() {
	case "stringSlice":
		return set.GetStringSlice(flag.Name)
	case "bool":
		return set.GetBool(flag.Name)
	case "int":
		return set.GetInt(flag.Name)
	case "duration":
		return set.GetDuration(flag.Name)
	default:
		return flag.Value.String(), nil
	}
}

// loadEnvFile loads variables from --env-file. A missing file is ignored
// unless the flag was set explicitly. Variables already in the environment
// are kept.
func loadEnvFile(cmd *cobra.Command) error {
	path, err := cmd.Flags().GetString("env-file")
	if err != nil {
		return fmt.Errorf("failed to get env-file flag: %w", err)
	}
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) && !cmd.Flags().Changed("env-file") {
			return nil
		}
		return fmt.Errorf("failed to stat env file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("env file path '%s' is not a regular file", path)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}
