// internal/cli/scrape.go
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/denverfit/recsched/internal/fetch"
	"github.com/denverfit/recsched/internal/parse"
	"github.com/denverfit/recsched/internal/pipeline"
	"github.com/denverfit/recsched/internal/query"
	"github.com/denverfit/recsched/internal/ratelimit"
	"github.com/denverfit/recsched/internal/sink"
	"github.com/denverfit/recsched/internal/ui"
	"github.com/denverfit/recsched/pkg/models"
)

var (
	scrapeOutput   string
	scrapeCSV      string
	scrapeKeyword  string
	scrapeAttempts int
	scrapeSort     bool
)

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Render the schedule page and extract class listings",
	Long: `Scrape opens the configured schedule search page in a headless
browser, waits for the results to render, extracts class records with a
chain of parsing strategies, and writes a schedule document to disk.

Transient failures (timeouts, empty results, browser crashes) are
retried with growing backoff; a document is written even when every
attempt comes back empty.`,
	Example: `  # Scrape with the configured defaults
  recsched scrape

  # Write somewhere else and keep a CSV copy
  recsched scrape -o out/schedule.json --csv out/schedule.csv

  # Search for a different facility
  recsched scrape --keyword "Montclair" --attempts 5`,
	Args: cobra.NoArgs,
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().StringVarP(&scrapeOutput, "output", "o", "", "File path for the JSON schedule document")
	scrapeCmd.Flags().StringVar(&scrapeCSV, "csv", "", "Also write records as CSV to this path")
	scrapeCmd.Flags().StringVar(&scrapeKeyword, "keyword", "", "Override the configured search keyword")
	scrapeCmd.Flags().IntVar(&scrapeAttempts, "attempts", 0, "Override the configured retry attempt budget")
	scrapeCmd.Flags().BoolVar(&scrapeSort, "sort", false, "Sort records by date and time instead of page order")
}

func runScrape(cmd *cobra.Command, args []string) error {
	if scrapeKeyword != "" {
		cfg.Target.Keyword = scrapeKeyword
	}
	if scrapeAttempts > 0 {
		cfg.Retry.MaxAttempts = scrapeAttempts
	}
	if scrapeOutput == "" {
		scrapeOutput = cfg.Output.JSONPath
	}
	if scrapeCSV == "" {
		scrapeCSV = cfg.Output.CSVPath
	}

	target, err := query.Build(cfg.Target.BaseURL, cfg.Target.SearchParams())
	if err != nil {
		return fmt.Errorf("build target URL: %w", err)
	}

	limiter := ratelimit.NewHostLimiter(cfg.Rate.RequestsPerSecond, cfg.Rate.Burst)
	fetcher := fetch.NewChrome(cfg.Fetch.Headless, cfg.Fetch.UserAgent, cfg.Fetch.ChromePath, cfg.Fetch.Proxy, limiter)
	parser := parse.New(cfg.Target.Facility)

	runner, err := pipeline.NewRunner(fetcher, parser, pipeline.Config{
		URL:           target,
		ReadySelector: cfg.Fetch.ReadySelector,
		FetchTimeout:  cfg.Fetch.Timeout,
		SettleDelay:   cfg.Fetch.SettleDelay,
		MaxAttempts:   cfg.Retry.MaxAttempts,
		BaseDelay:     cfg.Retry.BaseDelay,
	})
	if err != nil {
		return err
	}

	log.Info().Str("url", target).Int("max_attempts", cfg.Retry.MaxAttempts).Msg("starting scrape")

	bar := newSpinner("Rendering schedule page")
	done := make(chan pipeline.Result, 1)
	go func() { done <- runner.Run(cmd.Context()) }()

	var result pipeline.Result
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
wait:
	for {
		select {
		case result = <-done:
			break wait
		case <-ticker.C:
			_ = bar.Add(1)
		}
	}
	_ = bar.Finish()
	fmt.Fprintln(os.Stderr)

	records := result.Records
	if scrapeSort {
		models.SortByDateTime(records)
	}

	doc := models.NewScheduleDocument(cfg.Target.Facility, records)
	if err := sink.WriteJSON(doc, scrapeOutput); err != nil {
		return err
	}
	if scrapeCSV != "" {
		if err := sink.WriteCSV(records, scrapeCSV); err != nil {
			return err
		}
	}

	if result.Status == pipeline.StatusExhausted {
		fmt.Printf("%s attempts exhausted after %d tries, wrote empty document to %s\n",
			ui.Error("✗"), result.Attempts, scrapeOutput)
		return fmt.Errorf("scrape exhausted %d attempts: %w", result.Attempts, result.LastErr)
	}

	fmt.Printf("%s extracted %s classes in %d attempt(s), wrote %s\n",
		ui.Success("✓"), ui.Bold(fmt.Sprintf("%d", doc.ClassCount)), result.Attempts, scrapeOutput)
	return nil
}

// newSpinner returns an indeterminate progress spinner writing to stderr
// so piped stdout stays clean.
func newSpinner(description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionThrottle(100*time.Millisecond),
	)
}
