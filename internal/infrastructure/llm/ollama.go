package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"hnradar/internal/config"
	"hnradar/internal/domain"
	"hnradar/internal/ports"
)

const requestTimeout = 30 * time.Second

// OllamaClient asks a local Ollama-compatible model for relevance judgments.
// It is a pure protocol adapter: the judgment is returned exactly as the
// model produced it.
type OllamaClient struct {
	url        string
	model      string
	persona    string
	categories []string
	http       *http.Client
}

var _ ports.Analyzer = (*OllamaClient)(nil)

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Format   string        `json:"format"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
}

// NewOllamaClient builds a client from configuration.
func NewOllamaClient(cfg config.OllamaConfig, analysis config.AnalysisConfig) *OllamaClient {
	return &OllamaClient{
		url:        strings.TrimSuffix(cfg.URL, "/"),
		model:      cfg.Model,
		persona:    analysis.Persona,
		categories: analysis.Categories,
		http:       &http.Client{Timeout: requestTimeout},
	}
}

// Analyze sends a single non-streaming chat completion and parses the
// judgment embedded in the reply.
func (c *OllamaClient) Analyze(ctx context.Context, item domain.Item, excerpt string) (domain.Judgment, error) {
	request := chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: c.buildPrompt(item, excerpt)}},
		Stream:   false,
		Format:   "json",
	}

	body, err := json.Marshal(request)
	if err != nil {
		return domain.Judgment{}, fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return domain.Judgment{}, fmt.Errorf("%w: build request: %v", domain.ErrServiceUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.Judgment{}, fmt.Errorf("%w: send chat request: %v", domain.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Judgment{}, fmt.Errorf("%w: model service returned %s", domain.ErrServiceUnavailable, resp.Status)
	}

	var reply chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return domain.Judgment{}, fmt.Errorf("%w: decode chat response: %v", domain.ErrServiceUnavailable, err)
	}

	return parseJudgment(reply.Message.Content)
}

func (c *OllamaClient) buildPrompt(item domain.Item, excerpt string) string {
	url := "N/A"
	if item.URL != nil {
		url = *item.URL
	}

	var b strings.Builder
	fmt.Fprintf(&b, `Analyze this Hacker News article.
Assign the most specific category from the list below.
Use 'Other' ONLY for news that does not fit any other category.

Output Format (JSON):
{"relevant": boolean, "reason": "explanation", "priority": number (1-5), "category": "category_name"}

Persona: %s

Available Categories (Strict): %s

Article Title: %s
Article URL: %s`, c.persona, strings.Join(c.categories, ", "), item.Title, url)

	if excerpt != "" {
		fmt.Fprintf(&b, "\nArticle Excerpt: %s", excerpt)
	}

	return b.String()
}

// parseJudgment extracts the judgment object from free-form model output.
// The reply may wrap the JSON in commentary, so only the substring between
// the first '{' and the last '}' is parsed. There is no default judgment:
// an unparseable reply fails with the raw text preserved for diagnostics.
func parseJudgment(content string) (domain.Judgment, error) {
	extracted := extractJSON(content)

	var judgment domain.Judgment
	if err := json.Unmarshal([]byte(extracted), &judgment); err != nil {
		return domain.Judgment{}, fmt.Errorf("%w: %v (raw reply: %q)", domain.ErrMalformedJudgment, err, content)
	}

	return judgment, nil
}

func extractJSON(content string) string {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		return content[start : end+1]
	}
	return content
}
