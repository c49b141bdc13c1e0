package fetch

import "errors"

// Fetch failure conditions. Both arise from the remote resource's
// variability and are treated as retryable by the pipeline runner.
var (
	// ErrReadyTimeout means the readiness selector was not observed
	// within the budget. The fetcher still returns whatever markup the
	// page held at that point, because JS-rendered pages sometimes
	// populate data shortly after the marker check fails.
	ErrReadyTimeout = errors.New("readiness selector not observed before timeout")

	// ErrSession covers transport and browser-session failures: Chrome
	// could not start, navigation failed, the remote is unreachable.
	ErrSession = errors.New("browser session failure")
)
