package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"hnradar/internal/domain"
	"hnradar/internal/ports"
)

// Client talks to the Hacker News Firebase API.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ ports.FeedSource = (*Client)(nil)

// NewClient wires an HTTP client; a nil client gets a 20s-timeout default.
func NewClient(baseURL string, client *http.Client) *Client {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &Client{baseURL: baseURL, http: client}
}

// TopItemIDs fetches the ranking endpoint and truncates to limit. The caller
// decides whether and when to retry.
func (c *Client) TopItemIDs(ctx context.Context, limit int) ([]int64, error) {
	if limit <= 0 {
		return nil, nil
	}

	var ids []int64
	if err := c.get(ctx, c.baseURL+"/topstories.json", &ids); err != nil {
		return nil, err
	}

	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

// Item fetches a single story. Dead or deleted stories come back with
// title/url/score absent; those fields stay nil rather than failing the call.
func (c *Client) Item(ctx context.Context, id int64) (domain.FeedItem, error) {
	var item domain.FeedItem
	url := fmt.Sprintf("%s/item/%d.json", c.baseURL, id)
	if err := c.get(ctx, url, &item); err != nil {
		return domain.FeedItem{}, err
	}
	return item, nil
}

func (c *Client) get(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", domain.ErrNetwork, err)
	}
	req.Header.Set("User-Agent", "hnradar/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request %s: %v", domain.ErrNetwork, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: feed returned %s for %s", domain.ErrNetwork, resp.Status, url)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: decode %s: %v", domain.ErrDecode, url, err)
	}

	return nil
}
