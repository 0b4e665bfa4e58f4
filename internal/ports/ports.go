package ports

import (
	"context"

	"hnradar/internal/domain"
)

// FeedSource pulls story identifiers and item details from the feed API.
type FeedSource interface {
	// TopItemIDs returns at most limit identifiers from the ranking
	// endpoint, in rank order. limit <= 0 yields an empty slice.
	TopItemIDs(ctx context.Context, limit int) ([]int64, error)

	// Item fetches a single story's detail by feed identifier.
	Item(ctx context.Context, id int64) (domain.FeedItem, error)
}

// Analyzer obtains a relevance judgment for a stored item. excerpt is
// optional page text appended to the prompt; empty means title/URL only.
// Implementations return the model's judgment verbatim; category
// normalization belongs to the aggregation cycle.
type Analyzer interface {
	Analyze(ctx context.Context, item domain.Item, excerpt string) (domain.Judgment, error)
}

// PagePreviewer extracts a short excerpt from an item's linked page.
type PagePreviewer interface {
	Excerpt(ctx context.Context, pageURL string) (string, error)
}

// ItemRepository persists fetched items and their analysis results.
type ItemRepository interface {
	// UpsertItem inserts the item or, on feed-identifier conflict, updates
	// score and title only. Analysis fields are never touched.
	UpsertItem(ctx context.Context, item domain.FeedItem) error

	// ListUnanalyzed returns every row awaiting analysis, most recently
	// fetched first.
	ListUnanalyzed(ctx context.Context) ([]domain.Item, error)

	// RecordAnalysis marks the row analyzed and stores the judgment in one
	// update. Rows that are already analyzed are left untouched.
	RecordAnalysis(ctx context.Context, itemID int64, judgment domain.Judgment) error

	// ListInteresting returns at most 50 interesting rows under the given
	// ordering, optionally restricted to one category.
	ListInteresting(ctx context.Context, field domain.SortField, direction domain.SortDirection, category string) ([]domain.Item, error)

	// CategoryCounts returns interesting-row counts for every configured
	// category, zero-filled, ordered by count descending.
	CategoryCounts(ctx context.Context) ([]domain.CategoryCount, error)
}
