package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shornia-blip/reino-ceramicos-dashboard/internal/types"
)

// APISource fetches conversation records from the conversational-commerce
// REST API. The response body is a JSON array of arbitrary conversation
// objects; no schema is assumed beyond that.
type APISource struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewAPISource creates a new APISource
func NewAPISource(baseURL, token string, timeout time.Duration) *APISource {
	return &APISource{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Fetch requests every conversation in [from, to]
func (s *APISource) Fetch(ctx context.Context, from, to time.Time) ([]types.RawRecord, error) {
	query := url.Values{}
	query.Set("dateFrom", strconv.FormatInt(from.UnixMilli(), 10))
	query.Set("dateTo", strconv.FormatInt(to.UnixMilli(), 10))

	endpoint := fmt.Sprintf("%s/conversations?%s", s.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var records []types.RawRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return records, nil
}
