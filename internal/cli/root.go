// internal/cli/root.go
package cli

import (
	"context"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/denverfit/recsched/internal/config"
)

var (
	verbose bool
	jsonLog bool

	// cfg is loaded once per invocation in the root PersistentPreRunE
	// and shared by every command.
	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "recsched",
	Short: "Extract fitness class schedules from rendered web pages",
	Long: `Recsched drives a headless browser against a schedule search page,
extracts class listings from whatever markup shape the page renders,
and writes a complete schedule document to disk.

A lighter-weight feed command pulls the same data from the GroupEx Pro
JSON feed without a browser.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. This is called by main.main() and
// carries the signal-aware context down to every command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonLog, "json-log", false, "Emit logs as JSON instead of console output")

	// Load configuration lazily so -h/help never needs a valid env.
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if cfg != nil {
			return nil
		}
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		initLogging(cfg)
		return nil
	}

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// initLogging configures the global zerolog logger. Flags win over the
// configured level so -v always takes effect.
func initLogging(cfg *config.Config) {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Logging.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	if jsonLog || cfg.Logging.JSON {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
