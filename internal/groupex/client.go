// Package groupex pulls the class schedule straight from the GroupEx
// Pro embed feed, bypassing the rendered search page entirely. The
// feed is faster and more stable than browser scraping but only covers
// accounts that publish through GroupEx Pro, so it complements rather
// than replaces the pipeline.
package groupex

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"github.com/denverfit/recsched/internal/classify"
	"github.com/denverfit/recsched/internal/parse"
	"github.com/denverfit/recsched/internal/ratelimit"
	"github.com/denverfit/recsched/pkg/models"
)

const defaultBaseURL = "https://www.groupexpro.com/schedule/embed/json.php"

// Client fetches and maps the schedule feed for one account.
type Client struct {
	http      *resty.Client
	baseURL   string
	accountID int
}

// NewClient creates a feed client. A nil limiter disables throttling.
func NewClient(accountID int, userAgent string, timeout time.Duration, limiter ratelimit.Limiter) *Client {
	httpClient := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/json")

	if limiter != nil {
		httpClient.OnBeforeRequest(func(c *resty.Client, req *resty.Request) error {
			return limiter.Wait(req.Context(), req.URL)
		})
	}

	return &Client{
		http:      httpClient,
		baseURL:   defaultBaseURL,
		accountID: accountID,
	}
}

// SetBaseURL overrides the feed endpoint. Used by tests.
func (c *Client) SetBaseURL(u string) { c.baseURL = u }

// Schedule fetches the feed and maps its rows to class records,
// keeping only classes at locationFilter when it is non-empty. Records
// come back classified and sorted by (date, time).
func (c *Client) Schedule(ctx context.Context, locationFilter string) ([]models.ClassRecord, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("schedule", "").
		SetQueryParam("a", strconv.Itoa(c.accountID)).
		Get(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("fetch schedule feed: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("schedule feed returned %s", resp.Status())
	}

	rows, err := decodeRows(resp.Body())
	if err != nil {
		return nil, err
	}

	log.Debug().
		Int("account", c.accountID).
		Int("rows", len(rows)).
		Msg("Schedule feed fetched")

	records := make([]models.ClassRecord, 0, len(rows))
	for _, row := range rows {
		rec, ok := mapRow(row)
		if !ok {
			continue
		}
		if locationFilter != "" && rec.Location != locationFilter {
			continue
		}
		rec.Category = classify.Classify(rec.Name)
		records = append(records, rec)
	}

	models.SortByDateTime(records)

	log.Info().
		Int("classes", len(records)).
		Str("location", locationFilter).
		Msg("Schedule feed mapped")
	return records, nil
}

// Feed row layout: 0=date, 1=time, 2=name, 4=room, 6=instructor,
// 7=duration in minutes, 8=location. Shorter rows are skipped.
func mapRow(row []string) (models.ClassRecord, bool) {
	if len(row) < 9 {
		return models.ClassRecord{}, false
	}

	name := strings.TrimSpace(row[2])
	if name == "" {
		return models.ClassRecord{}, false
	}

	room := strings.TrimSpace(strings.ReplaceAll(row[4], "&nbsp;", ""))

	instructor := strings.TrimSpace(row[6])
	switch instructor {
	case "NA -   No Instructor .", "Staff", "NA":
		instructor = ""
	}

	// Duration is only kept when the cell is a plain number; the feed
	// sometimes carries placeholder text there.
	duration := 0
	if d, err := strconv.Atoi(strings.TrimSpace(row[7])); err == nil && d > 0 {
		duration = d
	}

	return models.ClassRecord{
		Name:            name,
		Date:            parse.NormalizeDate(row[0]),
		Time:            strings.TrimSpace(row[1]),
		Location:        strings.TrimSpace(row[8]),
		Room:            room,
		Instructor:      instructor,
		DurationMinutes: duration,
	}, true
}
