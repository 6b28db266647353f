// Package ocremix fetches remix metadata from the public community catalog.
package ocremix

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"wavelib/logger"
	"wavelib/model"
)

// Client talks to the public remix catalog, a static JSON file tree keyed by
// zero-padded remix number.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a catalog client rooted at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: time.Second * 10,
		},
	}
}

// Fetch retrieves the catalog entry for the given remix number. An entry
// that does not exist or does not parse is not an error: the catalog serves
// arbitrary HTML for unknown IDs, so both cases return nil and the caller
// reports an empty result.
func (c *Client) Fetch(ctx context.Context, remixNum int) (*model.Remix, error) {
	url := fmt.Sprintf("%s/remix/OCR%05d.json", c.baseURL, remixNum)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Debug("Catalog returned non-OK status",
			logger.Int("remixNum", remixNum),
			logger.Int("status", resp.StatusCode))
		return nil, nil
	}

	remix := &model.Remix{}
	if err := json.NewDecoder(resp.Body).Decode(remix); err != nil {
		logger.Debug("Catalog entry did not parse",
			logger.Int("remixNum", remixNum),
			logger.ErrorField(err))
		return nil, nil
	}
	return remix, nil
}

// Download retrieves the remix audio from the given URL and returns its
// bytes. Unlike Fetch, failures here are real errors: the caller asked for a
// specific file and needs to know it did not arrive.
func (c *Client) Download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build download request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remix download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("remix download returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read remix download: %w", err)
	}
	return body, nil
}
