package preview

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"hnradar/internal/ports"
)

const maxExcerptLen = 500

// Client fetches an item's linked page and extracts a short excerpt that is
// appended to the analysis prompt. Everything here is best-effort: the
// aggregation cycle degrades to title/URL when extraction fails.
type Client struct {
	http *http.Client
}

var _ ports.PagePreviewer = (*Client)(nil)

// NewClient wires an HTTP client; a nil client gets a 10s-timeout default.
func NewClient(client *http.Client) *Client {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{http: client}
}

// Excerpt returns meta description, og:description or the first paragraph of
// the page, whichever is found first, truncated to 500 characters.
func (c *Client) Excerpt(ctx context.Context, pageURL string) (string, error) {
	doc, err := c.fetchDocument(ctx, pageURL)
	if err != nil {
		return "", err
	}
	return extractExcerpt(doc), nil
}

func (c *Client) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "hnradar/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("page returned %s", resp.Status)
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "html") {
		return nil, fmt.Errorf("unsupported content type %s", ct)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

func extractExcerpt(doc *goquery.Document) string {
	if desc, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok {
		if text := strings.TrimSpace(desc); text != "" {
			return truncate(text)
		}
	}

	if desc, ok := doc.Find(`meta[property="og:description"]`).First().Attr("content"); ok {
		if text := strings.TrimSpace(desc); text != "" {
			return truncate(text)
		}
	}

	var paragraph string
	doc.Find("p").EachWithBreak(func(i int, p *goquery.Selection) bool {
		text := strings.Join(strings.Fields(p.Text()), " ")
		if utf8.RuneCountInString(text) >= 80 {
			paragraph = text
			return false
		}
		return true
	})

	return truncate(paragraph)
}

func truncate(text string) string {
	if utf8.RuneCountInString(text) <= maxExcerptLen {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxExcerptLen])
}
