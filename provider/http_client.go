package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Dosada05/prediction-league/models"
)

const dateLayout = "2006-01-02"

// HTTPClientConfig controls how the client reaches the upstream feed.
type HTTPClientConfig struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// HTTPClient is the default FixtureProvider implementation over a JSON API
// exposing GET /fixtures/{id} and GET /fixtures?sport=&from=&to=.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPClient constructs a provider client with the given configuration.
func NewHTTPClient(cfg HTTPClientConfig) *HTTPClient {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
	}
}

type fixtureDTO struct {
	ID            int64     `json:"id"`
	Status        string    `json:"status"`
	HomeName      string    `json:"home_name"`
	AwayName      string    `json:"away_name"`
	HomeScore     *int      `json:"home_score"`
	AwayScore     *int      `json:"away_score"`
	ElapsedMinute *int      `json:"elapsed_minute"`
	KickoffAt     time.Time `json:"kickoff_at"`
}

type fixtureListResponse struct {
	Fixtures []fixtureDTO `json:"fixtures"`
}

// FixtureByID looks a single fixture up by its provider-assigned id.
func (c *HTTPClient) FixtureByID(ctx context.Context, externalID int64) (*models.ExternalSnapshot, error) {
	endpoint := fmt.Sprintf("%s/fixtures/%d", c.baseURL, externalID)

	var dto fixtureDTO
	if err := c.getJSON(ctx, endpoint, &dto); err != nil {
		return nil, err
	}
	snapshot := mapFixture(dto)
	return &snapshot, nil
}

// FixturesByDateRange lists all fixtures of a sport within the date window.
func (c *HTTPClient) FixturesByDateRange(ctx context.Context, sport string, from, to time.Time) ([]models.ExternalSnapshot, error) {
	query := url.Values{}
	query.Set("sport", sport)
	query.Set("from", from.UTC().Format(dateLayout))
	query.Set("to", to.UTC().Format(dateLayout))
	endpoint := c.baseURL + "/fixtures?" + query.Encode()

	var payload fixtureListResponse
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, err
	}

	snapshots := make([]models.ExternalSnapshot, 0, len(payload.Fixtures))
	for _, dto := range payload.Fixtures {
		snapshots = append(snapshots, mapFixture(dto))
	}
	return snapshots, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, endpoint string, dst interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build provider request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return fmt.Errorf("%w: timeout: %v", ErrProviderUnavailable, err)
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: deadline exceeded", ErrProviderUnavailable)
		}
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode == http.StatusNotFound:
		return ErrFixtureNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: rate limited (retry-after %q)", ErrProviderUnavailable, resp.Header.Get("Retry-After"))
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: upstream status %d", ErrProviderUnavailable, resp.StatusCode)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("provider returned unexpected status %s: %s", strconv.Itoa(resp.StatusCode), strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("failed to decode provider response: %w", err)
	}
	return nil
}

func mapFixture(dto fixtureDTO) models.ExternalSnapshot {
	return models.ExternalSnapshot{
		ExternalID:    dto.ID,
		StatusCode:    dto.Status,
		HomeTeamName:  dto.HomeName,
		AwayTeamName:  dto.AwayName,
		HomeScore:     dto.HomeScore,
		AwayScore:     dto.AwayScore,
		ElapsedMinute: dto.ElapsedMinute,
		KickoffAt:     dto.KickoffAt.UTC(),
	}
}
