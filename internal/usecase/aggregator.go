package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"hnradar/internal/domain"
	"hnradar/internal/metrics"
	"hnradar/internal/ports"
)

const (
	defaultFetchDelay   = 100 * time.Millisecond
	defaultAnalyzeDelay = 500 * time.Millisecond
)

// AggregatorDeps wires all driven adapters into the aggregation cycle.
// Preview is optional; the delays exist so tests can run without waiting.
type AggregatorDeps struct {
	Feed         ports.FeedSource
	Repository   ports.ItemRepository
	Analyzer     ports.Analyzer
	Preview      ports.PagePreviewer
	Logger       *slog.Logger
	Categories   []string
	TopStories   int
	Interval     time.Duration
	FetchDelay   time.Duration
	AnalyzeDelay time.Duration
}

// Aggregator runs the fetch-store-analyze cycle on a fixed interval. Both
// the fetch loop and the analysis loop are strictly sequential: the feed API
// is rate-limited and local model inference is a single-consumer resource.
type Aggregator struct {
	feed         ports.FeedSource
	repo         ports.ItemRepository
	analyzer     ports.Analyzer
	preview      ports.PagePreviewer
	logger       *slog.Logger
	categories   []string
	topStories   int
	interval     time.Duration
	fetchDelay   time.Duration
	analyzeDelay time.Duration
}

// NewAggregator constructs the orchestration component.
func NewAggregator(deps AggregatorDeps) *Aggregator {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.FetchDelay == 0 {
		deps.FetchDelay = defaultFetchDelay
	}
	if deps.AnalyzeDelay == 0 {
		deps.AnalyzeDelay = defaultAnalyzeDelay
	}

	return &Aggregator{
		feed:         deps.Feed,
		repo:         deps.Repository,
		analyzer:     deps.Analyzer,
		preview:      deps.Preview,
		logger:       deps.Logger,
		categories:   deps.Categories,
		topStories:   deps.TopStories,
		interval:     deps.Interval,
		fetchDelay:   deps.FetchDelay,
		analyzeDelay: deps.AnalyzeDelay,
	}
}

// Run executes one cycle immediately, then on every interval tick until the
// context is cancelled. Cycle failures are logged, never fatal: the next
// tick is the retry mechanism.
func (a *Aggregator) Run(ctx context.Context) {
	a.logger.Info("aggregator started", "interval", a.interval, "top_stories", a.topStories)

	if err := a.RunCycle(ctx); err != nil {
		a.logger.Error("aggregation cycle failed", "error", err)
	}

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("aggregator stopped")
			return
		case <-ticker.C:
			if err := a.RunCycle(ctx); err != nil {
				a.logger.Error("aggregation cycle failed", "error", err)
			}
		}
	}
}

// RunCycle performs one full fetch-store-select-analyze pass. Per-item
// failures are contained inside their phase; only being unable to read the
// store at all fails the cycle.
func (a *Aggregator) RunCycle(ctx context.Context) error {
	log := a.logger.With("run_id", uuid.NewString())
	started := time.Now()
	log.Info("starting aggregation cycle")

	a.ingest(ctx, log)

	items, err := a.repo.ListUnanalyzed(ctx)
	if err != nil {
		return fmt.Errorf("list unanalyzed: %w", err)
	}
	log.Info("selected unanalyzed items", "count", len(items))

	a.analyze(ctx, log, items)

	metrics.CyclesTotal.Inc()
	metrics.CycleDuration.Observe(time.Since(started).Seconds())
	log.Info("aggregation cycle completed", "elapsed", time.Since(started).Round(time.Millisecond))
	return nil
}

// ingest pulls the current top stories and upserts each one. A ranking
// fetch failure skips ingestion for this cycle only; analysis of already
// stored rows still proceeds.
func (a *Aggregator) ingest(ctx context.Context, log *slog.Logger) {
	ids, err := a.feed.TopItemIDs(ctx, a.topStories)
	if err != nil {
		log.Error("fetch phase failed, analyzing previously stored items only", "error", err)
		return
	}
	log.Info("fetched story ranking", "count", len(ids))

	for _, id := range ids {
		if ctx.Err() != nil {
			return
		}

		// Fixed delay between feed calls to respect upstream rate limits.
		a.pause(ctx, a.fetchDelay)

		item, err := a.feed.Item(ctx, id)
		if err != nil {
			log.Warn("failed to fetch item", "hn_id", id, "error", err)
			metrics.FetchFailures.Inc()
			continue
		}

		if err := a.repo.UpsertItem(ctx, item); err != nil {
			log.Warn("failed to save item", "hn_id", id, "error", err)
			metrics.FetchFailures.Inc()
			continue
		}

		metrics.ItemsFetched.Inc()
	}
}

// analyze pushes each unanalyzed row through the model, one at a time. A
// failed row stays unanalyzed and is retried on the next cycle.
func (a *Aggregator) analyze(ctx context.Context, log *slog.Logger, items []domain.Item) {
	for _, item := range items {
		if ctx.Err() != nil {
			return
		}

		judgment, err := a.analyzer.Analyze(ctx, item, a.excerpt(ctx, log, item))
		if err != nil {
			log.Warn("failed to analyze item", "hn_id", item.HNID, "title", item.Title, "error", err)
			metrics.AnalysisFailures.Inc()
			a.pause(ctx, a.analyzeDelay)
			continue
		}

		if !domain.CategoryAllowed(judgment.Category, a.categories) {
			log.Warn("model returned invalid category, using fallback",
				"category", judgment.Category, "title", item.Title)
			metrics.CategoryCorrections.Inc()
		}
		judgment.Category = domain.NormalizeCategory(judgment.Category, a.categories)

		if err := a.repo.RecordAnalysis(ctx, item.ID, judgment); err != nil {
			log.Error("failed to save analysis", "hn_id", item.HNID, "error", err)
			metrics.AnalysisFailures.Inc()
		} else {
			metrics.ItemsAnalyzed.Inc()
			log.Info("item analyzed", "title", item.Title,
				"relevant", judgment.Relevant, "priority", judgment.Priority, "category", judgment.Category)
		}

		a.pause(ctx, a.analyzeDelay)
	}
}

// excerpt best-effort extracts page text for the prompt. Failures degrade
// the prompt to title/URL only.
func (a *Aggregator) excerpt(ctx context.Context, log *slog.Logger, item domain.Item) string {
	if a.preview == nil || item.URL == nil || *item.URL == "" {
		return ""
	}

	text, err := a.preview.Excerpt(ctx, *item.URL)
	if err != nil {
		log.Debug("page excerpt unavailable", "url", *item.URL, "error", err)
		return ""
	}
	return text
}

func (a *Aggregator) pause(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
