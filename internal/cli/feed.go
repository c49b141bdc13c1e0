// internal/cli/feed.go
package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/denverfit/recsched/internal/groupex"
	"github.com/denverfit/recsched/internal/ratelimit"
	"github.com/denverfit/recsched/internal/sink"
	"github.com/denverfit/recsched/internal/ui"
	"github.com/denverfit/recsched/pkg/models"
)

var (
	feedLocation string
	feedAccount  int
	feedOutput   string
	feedCSV      string
)

// feedCmd represents the feed command
var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Pull class listings from the GroupEx Pro JSON feed",
	Long: `Feed fetches the schedule from the GroupEx Pro embed feed instead of
rendering the search page. It is faster and does not need a browser,
but only covers facilities published through GroupEx Pro.`,
	Example: `  # Pull the configured facility's feed
  recsched feed

  # A different account, unfiltered, to a custom path
  recsched feed --account 1234 --location "" -o out/feed.json`,
	Args: cobra.NoArgs,
	RunE: runFeed,
}

func init() {
	rootCmd.AddCommand(feedCmd)

	feedCmd.Flags().StringVar(&feedLocation, "location", "", "Only keep classes at this location (default: configured facility)")
	feedCmd.Flags().IntVar(&feedAccount, "account", 0, "Override the configured GroupEx Pro account id")
	feedCmd.Flags().StringVarP(&feedOutput, "output", "o", "", "File path for the JSON schedule document")
	feedCmd.Flags().StringVar(&feedCSV, "csv", "", "Also write records as CSV to this path")
}

func runFeed(cmd *cobra.Command, args []string) error {
	if feedAccount > 0 {
		cfg.Feed.AccountID = feedAccount
	}
	if !cmd.Flags().Changed("location") {
		feedLocation = cfg.Target.Facility
	}
	if feedOutput == "" {
		feedOutput = cfg.Output.JSONPath
	}
	if feedCSV == "" {
		feedCSV = cfg.Output.CSVPath
	}

	limiter := ratelimit.NewHostLimiter(cfg.Rate.RequestsPerSecond, cfg.Rate.Burst)
	client := groupex.NewClient(cfg.Feed.AccountID, cfg.Fetch.UserAgent, cfg.Feed.Timeout, limiter)

	log.Info().Int("account_id", cfg.Feed.AccountID).Str("location", feedLocation).Msg("fetching feed")

	records, err := client.Schedule(cmd.Context(), feedLocation)
	if err != nil {
		return fmt.Errorf("fetch feed: %w", err)
	}

	doc := models.NewScheduleDocument(feedLocation, records)
	if err := sink.WriteJSON(doc, feedOutput); err != nil {
		return err
	}
	if feedCSV != "" {
		if err := sink.WriteCSV(records, feedCSV); err != nil {
			return err
		}
	}

	fmt.Printf("%s fetched %s classes from feed, wrote %s\n",
		ui.Success("✓"), ui.Bold(fmt.Sprintf("%d", doc.ClassCount)), feedOutput)
	return nil
}
