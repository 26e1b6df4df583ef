package scheduler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// HTTPNotifier cues the API process's broadcaster over its notifyChange
// endpoint. The worker runs as a separate process, and the subscriber
// registry is local to the API process, so the cue travels over HTTP.
// Delivery is best effort: failures are logged and never stop the worker.
type HTTPNotifier struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewHTTPNotifier(url string, timeout time.Duration, logger *slog.Logger) *HTTPNotifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPNotifier{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// NotifyChange posts the cue. It returns 0 on any failure; the signal is
// idempotent and the next state change re-cues the consumers.
func (n *HTTPNotifier) NotifyChange() int {
	if n.url == "" {
		return 0
	}

	ctx, cancel := context.WithTimeout(context.Background(), n.httpClient.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, nil)
	if err != nil {
		n.logger.Warn("failed to build notify request", slog.Any("error", err))
		return 0
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		n.logger.Warn("change notification failed", slog.Any("error", err))
		return 0
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		n.logger.Warn("change notification rejected", slog.Int("status", resp.StatusCode))
		return 0
	}
	return 1
}
