package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/panyam/caresim/config"
	"github.com/panyam/caresim/runtime"
	"github.com/spf13/cobra"
)

// Set via -ldflags at build time.
var (
	Version   = "dev"
	GitCommit = "none"
	BuildDate = "unknown"
)

var (
	cfgFile  string
	envFile  string
	logLevel string

	// cfg is resolved once per invocation before any subcommand runs.
	cfg = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "caresim",
	Short: "caresim compares healthcare queue capacity scenarios",
	Long: `caresim runs a deterministic backlog model of a healthcare service
(a surgical waiting list per week, or an emergency department per hour) and
compares a baseline capacity against an intervention.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to a YAML config file (default: CARESIM_CONFIG env var)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Env file loaded before resolving config")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug|info|warn|error|off (overrides config)")
}

func setup(cmd *cobra.Command, args []string) error {
	if err := config.LoadEnvFile(envFile); err != nil {
		return err
	}
	loaded, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	cfg = loaded

	levelName := cfg.Log.Level
	if logLevel != "" {
		levelName = logLevel
	}
	level, err := runtime.ParseLogLevel(levelName)
	if err != nil {
		return err
	}
	handler := newLogHandler(cfg.Log.Format)
	slog.SetDefault(slog.New(handler))
	runtime.SetLogHandler(handler)
	runtime.SetLogLevel(level)
	if cfg.Path != "" {
		runtime.Debug("config loaded from %s", cfg.Path)
	}
	return nil
}

func newLogHandler(format string) slog.Handler {
	opts := slog.HandlerOptions{Level: slog.LevelDebug}
	switch format {
	case "json":
		return slog.NewJSONHandler(os.Stderr, &opts)
	case "text":
		return slog.NewTextHandler(os.Stderr, &opts)
	}
	return runtime.NewPrettyHandler(os.Stderr, runtime.PrettyHandlerOptions{SlogOpts: opts})
}
