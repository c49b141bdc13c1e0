// internal/cli/debug.go
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/denverfit/recsched/internal/fetch"
	"github.com/denverfit/recsched/internal/parse"
	"github.com/denverfit/recsched/internal/query"
	"github.com/denverfit/recsched/internal/ratelimit"
	"github.com/denverfit/recsched/internal/sink"
	"github.com/denverfit/recsched/internal/ui"
)

var debugDir string

// debugCmd represents the debug command
var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Fetch the schedule page once and dump diagnostic artifacts",
	Long: `Debug performs a single browser fetch with no retries and writes what
it saw: the raw rendered markup, a markdown rendition for quick reading,
and the record count each extraction strategy produced. Use it to find
out why a scrape came back empty.`,
	Args: cobra.NoArgs,
	RunE: runDebug,
}

func init() {
	rootCmd.AddCommand(debugCmd)

	debugCmd.Flags().StringVar(&debugDir, "dir", "debug", "Directory for diagnostic artifacts")
}

func runDebug(cmd *cobra.Command, args []string) error {
	target, err := query.Build(cfg.Target.BaseURL, cfg.Target.SearchParams())
	if err != nil {
		return fmt.Errorf("build target URL: %w", err)
	}

	limiter := ratelimit.NewHostLimiter(cfg.Rate.RequestsPerSecond, cfg.Rate.Burst)
	fetcher := fetch.NewChrome(cfg.Fetch.Headless, cfg.Fetch.UserAgent, cfg.Fetch.ChromePath, cfg.Fetch.Proxy, limiter)

	log.Info().Str("url", target).Msg("fetching page for diagnostics")

	markup, err := fetcher.Fetch(cmd.Context(), fetch.Options{
		URL:           target,
		ReadySelector: cfg.Fetch.ReadySelector,
		Timeout:       cfg.Fetch.Timeout,
		SettleDelay:   cfg.Fetch.SettleDelay,
	})
	if err != nil {
		// Partial markup after a readiness timeout is still worth dumping.
		if !errors.Is(err, fetch.ErrReadyTimeout) || markup == "" {
			return fmt.Errorf("fetch page: %w", err)
		}
		log.Warn().Err(err).Msg("readiness timed out, dumping partial markup")
	}

	if err := os.MkdirAll(debugDir, 0o755); err != nil {
		return fmt.Errorf("create debug dir: %w", err)
	}

	htmlPath := filepath.Join(debugDir, "source.html")
	if err := os.WriteFile(htmlPath, []byte(markup), 0o644); err != nil {
		return fmt.Errorf("write markup: %w", err)
	}

	mdPath := filepath.Join(debugDir, "source.md")
	if err := sink.WriteMarkdown(markup, target, mdPath); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}

	parser := parse.New(cfg.Target.Facility)
	yields, err := parser.Yields(markup)
	if err != nil {
		return err
	}
	for name, count := range yields {
		fmt.Printf("  strategy %s yielded %d record(s)\n", ui.Bold(name), count)
	}

	fmt.Printf("%s wrote %s and %s\n", ui.Success("✓"), htmlPath, mdPath)
	return nil
}
