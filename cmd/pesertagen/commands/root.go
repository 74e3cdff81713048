// Package commands implements the pesertagen subcommands.
package commands

import (
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"pesertagen/internal/config"
	"pesertagen/internal/generator"
	"pesertagen/internal/logger"
)

var (
	configPath string
	logLevel   string

	appConfig = config.DefaultConfig()
	appLogger = logger.NewNop()
)

// RegisterGlobalFlags adds the flags shared by every subcommand.
func RegisterGlobalFlags(flags *pflag.FlagSet) {
	flags.StringVar(&configPath, "config", "", "Path to YAML configuration file")
	flags.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
}

// Setup loads .env, the configuration and the logger. It is meant for the
// root command's PersistentPreRunE.
func Setup(cmd *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if level := strings.ToLower(strings.TrimSpace(logLevel)); level != "" {
		cfg.Logging.Level = level
		if err := cfg.Validate(); err != nil {
			return errors.Wrap(err, "invalid --log-level")
		}
	}

	appConfig = cfg
	appLogger = logger.NewLoggerTo(cmd.ErrOrStderr(), cfg.Logging.Level)

	appLogger.Debug("configuration loaded", "config", cfg.String())

	return nil
}

// Teardown flushes the logger.
func Teardown(_ *cobra.Command, _ []string) {
	// Sync on stderr returns EINVAL on some platforms.
	_ = appLogger.Sync()
}

// PrintError writes err and its hints for the operator.
func PrintError(w io.Writer, err error) {
	pterm.Error.WithWriter(w).Println(err.Error())

	if hint := errors.FlattenHints(err); hint != "" {
		pterm.Info.WithWriter(w).Println(hint)
	}
}

func newService() (*generator.Service, error) {
	return generator.NewService(generator.Options{
		Aliases:      appConfig.GetAliases(),
		OutputBase:   appConfig.Output.BasePath,
		RunDirs:      appConfig.Output.RunDirs,
		PreviewRows:  appConfig.Preview.Rows,
		MaxCellWidth: appConfig.Preview.MaxCellWidth,
		CacheSize:    appConfig.Cache.Size,
	}, appLogger)
}
