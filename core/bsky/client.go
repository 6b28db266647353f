// Package bsky posts station announcements to the Bluesky social network.
package bsky

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"wavelib/config"
	"wavelib/logger"
)

// Client authenticates against a PDS host with a password grant and creates
// feed posts. Access tokens are short-lived, so each post creates a fresh
// session instead of caching one; posting is rare enough that the extra
// round trip does not matter, and the client stays safe to share.
type Client struct {
	handle     string
	password   string
	pdsHost    string
	httpClient *http.Client
}

// NewClient builds a posting client from configuration.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		handle:   cfg.BskyHandle,
		password: cfg.BskyPassword,
		pdsHost:  cfg.BskyPDSHost,
		httpClient: &http.Client{
			Timeout: time.Second * 10,
		},
	}
}

func (c *Client) postJSON(ctx context.Context, url, token string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// createSession performs the password grant and returns the access token.
func (c *Client) createSession(ctx context.Context) (string, error) {
	var session struct {
		AccessJwt string `json:"accessJwt"`
	}
	err := c.postJSON(ctx, c.pdsHost+"/xrpc/com.atproto.server.createSession", "", map[string]string{
		"identifier": c.handle,
		"password":   c.password,
	}, &session)
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	if session.AccessJwt == "" {
		return "", fmt.Errorf("session response carried no access token")
	}
	return session.AccessJwt, nil
}

// Post publishes a text post to the client's feed.
func (c *Client) Post(ctx context.Context, text string) error {
	token, err := c.createSession(ctx)
	if err != nil {
		return err
	}

	record := map[string]any{
		"collection": "app.bsky.feed.post",
		"repo":       c.handle,
		"record": map[string]string{
			"createdAt": time.Now().UTC().Format(time.RFC3339),
			"text":      text,
		},
	}
	err = c.postJSON(ctx, c.pdsHost+"/xrpc/com.atproto.repo.createRecord", token, record, nil)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	logger.Info("Posted announcement", logger.String("handle", c.handle))
	return nil
}
