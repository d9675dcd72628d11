package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff"
)

// DefaultBaseURL is the public ChRIS CUBE API.
const DefaultBaseURL = "https://cube.chrisproject.org/api/v1"

// Client fetches plugin listings from a ChRIS CUBE instance. CUBE speaks
// Collection+JSON; Client flattens each item's data list into one
// name→value map per plugin.
type Client struct {
	baseURL    string
	httpc      *http.Client
	timeout    time.Duration
	maxRetries uint64
}

// NewClient returns a Client for the CUBE API rooted at baseURL.
// timeout bounds each attempt; transient failures are retried with
// exponential backoff up to maxRetries additional attempts.
func NewClient(baseURL string, timeout time.Duration, maxRetries int) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Client{
		baseURL:    baseURL,
		httpc:      &http.Client{},
		timeout:    timeout,
		maxRetries: uint64(maxRetries),
	}
}

// collectionDoc is the subset of Collection+JSON the plugin listing uses.
type collectionDoc struct {
	Collection struct {
		Items []struct {
			Data []struct {
				Name  string `json:"name"`
				Value any    `json:"value"`
			} `json:"data"`
		} `json:"items"`
	} `json:"collection"`
}

// ListPlugins fetches up to limit plugin entries.
func (c *Client) ListPlugins(ctx context.Context, limit int) ([]map[string]any, error) {
	u, err := url.Parse(c.baseURL + "/plugins/")
	if err != nil {
		return nil, fmt.Errorf("catalog url: %w", err)
	}
	q := u.Query()
	q.Set("limit", strconv.Itoa(limit))
	u.RawQuery = q.Encode()

	var doc collectionDoc
	fetch := func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, u.String(), nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/vnd.collection+json")

		resp, err := c.httpc.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode >= 500:
			return fmt.Errorf("catalog returned %s", resp.Status)
		case resp.StatusCode != http.StatusOK:
			return backoff.Permanent(fmt.Errorf("catalog returned %s", resp.Status))
		}

		doc = collectionDoc{}
		if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
			return backoff.Permanent(fmt.Errorf("decode catalog response: %w", err))
		}
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries), ctx)
	if err := backoff.Retry(fetch, policy); err != nil {
		return nil, err
	}

	plugins := make([]map[string]any, 0, len(doc.Collection.Items))
	for _, item := range doc.Collection.Items {
		entry := make(map[string]any, len(item.Data))
		for _, d := range item.Data {
			entry[d.Name] = d.Value
		}
		plugins = append(plugins, entry)
	}
	return plugins, nil
}
