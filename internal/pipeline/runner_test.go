package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/denverfit/recsched/internal/fetch"
	"github.com/denverfit/recsched/internal/parse"
)

const scheduleMarkup = `<html><body><table>
<tr><th>Name</th><th>Date</th><th>Time</th></tr>
<tr><td>Morning Yoga</td><td>2024-05-01</td><td>9:00 AM</td></tr>
</table></body></html>`

const emptyMarkup = `<html><body><p>Loading...</p></body></html>`

// stubResponse is what one Fetch call returns.
type stubResponse struct {
	markup string
	err    error
}

// stubFetcher plays back canned responses and counts session
// open/close pairs the way the real fetcher scopes browser sessions.
type stubFetcher struct {
	responses []stubResponse
	calls     int
	opened    int
	closed    int
}

func (s *stubFetcher) Fetch(ctx context.Context, opts fetch.Options) (string, error) {
	s.opened++
	defer func() { s.closed++ }()

	i := s.calls
	s.calls++
	if i >= len(s.responses) {
		i = len(s.responses) - 1
	}
	return s.responses[i].markup, s.responses[i].err
}

func newTestRunner(t *testing.T, fetcher fetch.Fetcher, maxAttempts int) *Runner {
	t.Helper()
	runner, err := NewRunner(fetcher, parse.New("Carla Madison Rec Center"), Config{
		URL:         "https://example.com/activity/search",
		MaxAttempts: maxAttempts,
		BaseDelay:   time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}
	return runner
}

func TestRun_EmptyResultIsRetried(t *testing.T) {
	fetcher := &stubFetcher{responses: []stubResponse{
		{markup: emptyMarkup},
		{markup: emptyMarkup},
		{markup: scheduleMarkup},
	}}
	runner := newTestRunner(t, fetcher, 3)

	result := runner.Run(context.Background())

	if result.Status != StatusSucceeded {
		t.Fatalf("expected succeeded, got %s (err: %v)", result.Status, result.LastErr)
	}
	if result.Attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", result.Attempts)
	}
	if len(result.Records) != 1 || result.Records[0].Name != "Morning Yoga" {
		t.Errorf("expected the attempt-3 records, got %+v", result.Records)
	}
}

func TestRun_Exhausted(t *testing.T) {
	fetcher := &stubFetcher{responses: []stubResponse{
		{err: fmt.Errorf("cannot start session: %w", fetch.ErrSession)},
	}}
	runner := newTestRunner(t, fetcher, 3)

	result := runner.Run(context.Background())

	if result.Status != StatusExhausted {
		t.Fatalf("expected exhausted, got %s", result.Status)
	}
	if result.Attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", result.Attempts)
	}
	if len(result.Records) != 0 {
		t.Errorf("exhausted run must carry no records, got %d", len(result.Records))
	}
	if !errors.Is(result.LastErr, fetch.ErrSession) {
		t.Errorf("expected last error to wrap ErrSession, got %v", result.LastErr)
	}
}

func TestRun_SessionsAlwaysReleased(t *testing.T) {
	fetcher := &stubFetcher{responses: []stubResponse{
		{err: fmt.Errorf("unreachable: %w", fetch.ErrSession)},
		{markup: emptyMarkup, err: fmt.Errorf("selector: %w", fetch.ErrReadyTimeout)},
		{markup: scheduleMarkup},
	}}
	runner := newTestRunner(t, fetcher, 3)

	runner.Run(context.Background())

	if fetcher.opened != fetcher.closed {
		t.Errorf("session leak: %d opened, %d closed", fetcher.opened, fetcher.closed)
	}
	if fetcher.opened != 3 {
		t.Errorf("expected exactly one session per attempt, got %d", fetcher.opened)
	}
}

func TestRun_PartialMarkupAfterTimeout(t *testing.T) {
	// The readiness marker was never observed, but the partial markup
	// already holds the schedule; extraction on it counts as success.
	fetcher := &stubFetcher{responses: []stubResponse{
		{markup: scheduleMarkup, err: fmt.Errorf("selector %q: %w", "tr", fetch.ErrReadyTimeout)},
	}}
	runner := newTestRunner(t, fetcher, 3)

	result := runner.Run(context.Background())

	if result.Status != StatusSucceeded {
		t.Fatalf("expected succeeded on partial markup, got %s", result.Status)
	}
	if result.Attempts != 1 {
		t.Errorf("expected success on attempt 1, got %d", result.Attempts)
	}
}

func TestRun_ScheduleScenario(t *testing.T) {
	fetcher := &stubFetcher{responses: []stubResponse{{markup: scheduleMarkup}}}
	runner := newTestRunner(t, fetcher, 1)

	result := runner.Run(context.Background())

	if result.Status != StatusSucceeded {
		t.Fatalf("expected succeeded, got %s (err: %v)", result.Status, result.LastErr)
	}
	if len(result.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(result.Records))
	}

	rec := result.Records[0]
	if rec.Name != "Morning Yoga" {
		t.Errorf("name = %q", rec.Name)
	}
	if rec.Date != "2024-05-01" {
		t.Errorf("date = %q", rec.Date)
	}
	if rec.Time != "9:00 AM" {
		t.Errorf("time = %q", rec.Time)
	}
	if rec.Location != "Carla Madison Rec Center" {
		t.Errorf("location = %q", rec.Location)
	}
	if rec.Category != "yoga" {
		t.Errorf("category = %q", rec.Category)
	}
}

func TestRun_CancelDuringBackoff(t *testing.T) {
	fetcher := &stubFetcher{responses: []stubResponse{{markup: emptyMarkup}}}
	runner, err := NewRunner(fetcher, parse.New("Carla Madison Rec Center"), Config{
		URL:         "https://example.com/activity/search",
		MaxAttempts: 5,
		BaseDelay:   time.Hour,
	})
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	result := runner.Run(ctx)

	if result.Status != StatusExhausted {
		t.Errorf("expected exhausted after cancellation, got %s", result.Status)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("cancellation did not interrupt the backoff wait")
	}
}

func TestNewRunner_InvalidInvocation(t *testing.T) {
	parser := parse.New("x")
	fetcher := &stubFetcher{responses: []stubResponse{{markup: emptyMarkup}}}

	cases := []struct {
		name string
		cfg  Config
	}{
		{"missing URL", Config{MaxAttempts: 3}},
		{"zero attempts", Config{URL: "https://example.com", MaxAttempts: 0}},
		{"negative delay", Config{URL: "https://example.com", MaxAttempts: 3, BaseDelay: -time.Second}},
	}

	for _, tc := range cases {
		if _, err := NewRunner(fetcher, parser, tc.cfg); err == nil {
			t.Errorf("%s: expected configuration error", tc.name)
		}
	}
}
