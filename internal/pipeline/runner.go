// Package pipeline drives the fetch → parse → classify loop. One run
// is a single bounded execution: up to MaxAttempts sequential attempts
// with linearly increasing delay between them, where a fetch failure
// and an empty parse are treated identically as retryable.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/denverfit/recsched/internal/classify"
	"github.com/denverfit/recsched/internal/fetch"
	"github.com/denverfit/recsched/internal/parse"
	"github.com/denverfit/recsched/pkg/models"
)

// Status is the terminal state of a run.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusExhausted Status = "exhausted"
)

// Result is the output of one run: the classified records of the first
// successful attempt in source encounter order, the number of attempts
// consumed, and the last concrete error when attempts were spent.
type Result struct {
	Records  []models.ClassRecord
	Attempts int
	Status   Status
	LastErr  error
}

// Config bounds one run.
type Config struct {
	URL           string
	ReadySelector string
	FetchTimeout  time.Duration
	SettleDelay   time.Duration
	MaxAttempts   int
	// BaseDelay grows linearly between attempts: BaseDelay * attempt.
	BaseDelay time.Duration
}

// Runner executes the pipeline against a fetcher and parser.
type Runner struct {
	fetcher fetch.Fetcher
	parser  *parse.Parser
	cfg     Config
}

// NewRunner validates the configuration up front; an invalid local
// invocation fails immediately and never consumes a retry attempt.
func NewRunner(fetcher fetch.Fetcher, parser *parse.Parser, cfg Config) (*Runner, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("fetcher is required")
	}
	if parser == nil {
		return nil, fmt.Errorf("parser is required")
	}
	if cfg.URL == "" {
		return nil, fmt.Errorf("target URL is required")
	}
	if cfg.MaxAttempts < 1 {
		return nil, fmt.Errorf("max attempts must be >= 1, got %d", cfg.MaxAttempts)
	}
	if cfg.BaseDelay < 0 {
		return nil, fmt.Errorf("base delay must be >= 0")
	}

	return &Runner{fetcher: fetcher, parser: parser, cfg: cfg}, nil
}

// Run executes attempts until one yields records or the budget is
// spent. Retryable conditions never propagate to the caller; they
// surface only as the final Exhausted status with the last error
// attached for diagnostics.
func (r *Runner) Run(ctx context.Context) Result {
	var lastErr error

	for attempt := 1; attempt <= r.cfg.MaxAttempts; attempt++ {
		log.Info().
			Int("attempt", attempt).
			Int("max_attempts", r.cfg.MaxAttempts).
			Msg("Starting pipeline attempt")

		records, err := r.attempt(ctx, attempt)
		if err == nil && len(records) > 0 {
			log.Info().
				Int("attempt", attempt).
				Int("classes", len(records)).
				Msg("Pipeline succeeded")
			return Result{
				Records:  records,
				Attempts: attempt,
				Status:   StatusSucceeded,
			}
		}

		if err != nil {
			lastErr = err
			log.Warn().Err(err).Int("attempt", attempt).Msg("Pipeline attempt failed")
		} else {
			log.Warn().Int("attempt", attempt).Msg("Pipeline attempt found no classes")
		}

		if attempt < r.cfg.MaxAttempts {
			backoff := time.Duration(attempt) * r.cfg.BaseDelay
			log.Info().Dur("backoff", backoff).Msg("Retrying after backoff")

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				log.Warn().Err(ctx.Err()).Msg("Run cancelled during backoff")
				return Result{
					Records:  []models.ClassRecord{},
					Attempts: attempt,
					Status:   StatusExhausted,
					LastErr:  ctx.Err(),
				}
			}
		}
	}

	log.Error().
		Err(lastErr).
		Int("attempts", r.cfg.MaxAttempts).
		Msg("All pipeline attempts exhausted")

	return Result{
		Records:  []models.ClassRecord{},
		Attempts: r.cfg.MaxAttempts,
		Status:   StatusExhausted,
		LastErr:  lastErr,
	}
}

// attempt performs one fetch/parse/classify pass. A readiness timeout
// still returns partial markup; extraction is attempted on it because
// JS-rendered pages sometimes populate data after the marker check
// fails, and any records found count as success.
func (r *Runner) attempt(ctx context.Context, attempt int) ([]models.ClassRecord, error) {
	markup, fetchErr := r.fetcher.Fetch(ctx, fetch.Options{
		URL:           r.cfg.URL,
		ReadySelector: r.cfg.ReadySelector,
		Timeout:       r.cfg.FetchTimeout,
		SettleDelay:   r.cfg.SettleDelay,
	})
	if fetchErr != nil {
		if markup == "" {
			return nil, fetchErr
		}
		log.Debug().
			Err(fetchErr).
			Int("attempt", attempt).
			Msg("Attempting extraction on partial markup")
	}

	records, err := r.parser.Parse(markup)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		// An empty parse after a fetch error reports the fetch error;
		// otherwise the empty result itself is the retryable condition.
		return nil, fetchErr
	}

	return classify.Annotate(records), nil
}
