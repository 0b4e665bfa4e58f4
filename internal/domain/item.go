package domain

import "time"

// FeedItem is the raw shape returned by the Hacker News item endpoint.
// Deleted or dead stories arrive with title/url/score absent.
type FeedItem struct {
	ID    int64   `json:"id"`
	Title *string `json:"title"`
	URL   *string `json:"url"`
	Score *int64  `json:"score"`
	Time  int64   `json:"time"`
}

// Item is a persisted story row, before and after analysis. Reason, Priority
// and Category are only meaningful once AnalysisDone is true.
type Item struct {
	ID            int64     `json:"id"`
	HNID          int64     `json:"hn_id"`
	Title         string    `json:"title"`
	URL           *string   `json:"url,omitempty"`
	Score         int64     `json:"score"`
	Timestamp     int64     `json:"timestamp"`
	FetchedAt     time.Time `json:"fetched_at"`
	AnalysisDone  bool      `json:"analysis_done"`
	IsInteresting bool      `json:"is_interesting"`
	Reason        *string   `json:"reason,omitempty"`
	Priority      *int64    `json:"priority,omitempty"`
	Category      *string   `json:"category,omitempty"`
}

// Judgment is the structured relevance verdict produced by the model.
type Judgment struct {
	Relevant bool   `json:"relevant"`
	Reason   string `json:"reason"`
	Priority int64  `json:"priority"`
	Category string `json:"category"`
}

// CategoryCount pairs a configured category with its interesting-item count.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// SortField selects the column interesting items are ordered by.
type SortField string

// SortDirection selects ascending or descending order.
type SortDirection string

const (
	SortByDate     SortField = "date"
	SortByScore    SortField = "score"
	SortByPriority SortField = "priority"

	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)
