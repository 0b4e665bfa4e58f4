package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"hnradar/internal/domain"
	"hnradar/internal/ports"
)

// interestingLimit caps every read of interesting items.
const interestingLimit = 50

const schema = `
CREATE TABLE IF NOT EXISTS items (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	hn_id          INTEGER NOT NULL UNIQUE,
	title          TEXT    NOT NULL DEFAULT '',
	url            TEXT,
	score          INTEGER NOT NULL DEFAULT 0,
	timestamp      INTEGER NOT NULL,
	fetched_at     INTEGER NOT NULL,
	analysis_done  INTEGER NOT NULL DEFAULT 0,
	is_interesting INTEGER NOT NULL DEFAULT 0,
	reason         TEXT,
	priority       INTEGER,
	category       TEXT
);
CREATE INDEX IF NOT EXISTS idx_items_unanalyzed ON items (analysis_done, fetched_at);
CREATE INDEX IF NOT EXISTS idx_items_interesting ON items (is_interesting, category);
`

var itemColumns = []string{
	"id", "hn_id", "title", "url", "score", "timestamp", "fetched_at",
	"analysis_done", "is_interesting", "reason", "priority", "category",
}

// SQLiteRepository persists items into a single SQLite table. Every write is
// a single atomic upsert or update keyed by a unique identifier, so the
// aggregation cycle and query reads can share the store without row locking.
type SQLiteRepository struct {
	db         *sql.DB
	sb         squirrel.StatementBuilderType
	categories []string
}

var _ ports.ItemRepository = (*SQLiteRepository)(nil)

// NewSQLiteRepository opens (or creates) the database at path and bootstraps
// the schema. categories is the configured set used to zero-fill counts.
func NewSQLiteRepository(path string, categories []string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", domain.ErrStore, path, err)
	}

	// WAL keeps concurrent query reads from blocking on cycle writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA busy_timeout=5000;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: configure %s: %v", domain.ErrStore, path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: bootstrap schema: %v", domain.ErrStore, err)
	}

	return &SQLiteRepository{
		db:         db,
		sb:         squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		categories: categories,
	}, nil
}

// Close releases the underlying database handle.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// UpsertItem inserts the fetched item; on hn_id conflict only score and
// title are refreshed, leaving analysis state and fetched_at untouched.
func (r *SQLiteRepository) UpsertItem(ctx context.Context, item domain.FeedItem) error {
	title := ""
	if item.Title != nil {
		title = *item.Title
	}
	var score int64
	if item.Score != nil {
		score = *item.Score
	}

	query, args, err := r.sb.Insert("items").
		Columns("hn_id", "title", "url", "score", "timestamp", "fetched_at").
		Values(item.ID, title, item.URL, score, item.Time, time.Now().UTC().UnixNano()).
		Suffix("ON CONFLICT(hn_id) DO UPDATE SET score = excluded.score, title = excluded.title").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: build upsert: %v", domain.ErrStore, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: upsert item %d: %v", domain.ErrStore, item.ID, err)
	}

	return nil
}

// ListUnanalyzed returns every row still awaiting analysis, most recently
// fetched first. Volume is naturally bounded by ingestion, so no pagination.
func (r *SQLiteRepository) ListUnanalyzed(ctx context.Context) ([]domain.Item, error) {
	query, args, err := r.sb.Select(itemColumns...).
		From("items").
		Where(squirrel.Eq{"analysis_done": 0}).
		OrderBy("fetched_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: build select: %v", domain.ErrStore, err)
	}

	return r.queryItems(ctx, query, args)
}

// RecordAnalysis stores the judgment and flips analysis_done in one update.
// The analysis_done guard makes the transition monotonic: repeating the call
// for an already-analyzed row is a no-op.
func (r *SQLiteRepository) RecordAnalysis(ctx context.Context, itemID int64, judgment domain.Judgment) error {
	query, args, err := r.sb.Update("items").
		Set("analysis_done", 1).
		Set("is_interesting", judgment.Relevant).
		Set("reason", judgment.Reason).
		Set("priority", judgment.Priority).
		Set("category", judgment.Category).
		Where(squirrel.Eq{"id": itemID, "analysis_done": 0}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: build update: %v", domain.ErrStore, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: record analysis for item %d: %v", domain.ErrStore, itemID, err)
	}

	return nil
}

// ListInteresting reads relevant rows under the requested ordering, capped
// at 50, optionally filtered to a single category.
func (r *SQLiteRepository) ListInteresting(ctx context.Context, field domain.SortField, direction domain.SortDirection, category string) ([]domain.Item, error) {
	builder := r.sb.Select(itemColumns...).
		From("items").
		Where(squirrel.Eq{"is_interesting": 1})

	if category != "" {
		builder = builder.Where(squirrel.Eq{"category": category})
	}

	query, args, err := builder.
		OrderBy(orderClauses(field, direction)...).
		Limit(interestingLimit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: build select: %v", domain.ErrStore, err)
	}

	return r.queryItems(ctx, query, args)
}

// orderClauses is the closed (field, direction) -> ORDER BY mapping. Rows
// without a priority sort last regardless of direction, tie-broken on
// ingestion time.
func orderClauses(field domain.SortField, direction domain.SortDirection) []string {
	dir := "DESC"
	if direction == domain.SortAscending {
		dir = "ASC"
	}

	switch field {
	case domain.SortByScore:
		return []string{"score " + dir}
	case domain.SortByPriority:
		return []string{"priority " + dir + " NULLS LAST", "fetched_at " + dir}
	default:
		return []string{"fetched_at " + dir}
	}
}

// CategoryCounts aggregates interesting rows per category and merges the
// result with the configured category list, so every configured category is
// present even at count zero. Output is ordered by count descending with the
// configured order as tiebreak.
func (r *SQLiteRepository) CategoryCounts(ctx context.Context) ([]domain.CategoryCount, error) {
	query, args, err := r.sb.Select("category", "COUNT(*)").
		From("items").
		Where("is_interesting = 1 AND category IS NOT NULL AND category != ''").
		GroupBy("category").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: build select: %v", domain.ErrStore, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: query category counts: %v", domain.ErrStore, err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var name string
		var count int64
		if err := rows.Scan(&name, &count); err != nil {
			return nil, fmt.Errorf("%w: scan category count: %v", domain.ErrStore, err)
		}
		counts[name] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows iteration: %v", domain.ErrStore, err)
	}

	merged := make([]domain.CategoryCount, 0, len(r.categories))
	for _, name := range r.categories {
		merged = append(merged, domain.CategoryCount{Category: name, Count: counts[name]})
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Count > merged[j].Count
	})

	return merged, nil
}

func (r *SQLiteRepository) queryItems(ctx context.Context, query string, args []any) ([]domain.Item, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: query items: %v", domain.ErrStore, err)
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan item: %v", domain.ErrStore, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows iteration: %v", domain.ErrStore, err)
	}

	return items, nil
}

func scanItem(rows *sql.Rows) (domain.Item, error) {
	var (
		item      domain.Item
		url       sql.NullString
		fetchedAt int64
		reason    sql.NullString
		priority  sql.NullInt64
		category  sql.NullString
	)

	err := rows.Scan(
		&item.ID, &item.HNID, &item.Title, &url, &item.Score, &item.Timestamp,
		&fetchedAt, &item.AnalysisDone, &item.IsInteresting, &reason, &priority, &category,
	)
	if err != nil {
		return domain.Item{}, err
	}

	item.FetchedAt = time.Unix(0, fetchedAt).UTC()
	if url.Valid {
		item.URL = &url.String
	}
	if reason.Valid {
		item.Reason = &reason.String
	}
	if priority.Valid {
		item.Priority = &priority.Int64
	}
	if category.Valid {
		item.Category = &category.String
	}

	return item, nil
}
