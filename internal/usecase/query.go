package usecase

import (
	"context"
	"strings"

	"hnradar/internal/domain"
	"hnradar/internal/ports"
)

// QueryService is the read path exposed to the presentation boundary. Sort
// parameters are closed enumerations; anything unrecognized falls back to
// date descending.
type QueryService struct {
	repo ports.ItemRepository
}

// NewQueryService wires the repository read operations.
func NewQueryService(repo ports.ItemRepository) *QueryService {
	return &QueryService{repo: repo}
}

// ListInteresting returns interesting items under the requested ordering,
// optionally restricted to one category (empty means all).
func (s *QueryService) ListInteresting(ctx context.Context, sortField, sortDirection, category string) ([]domain.Item, error) {
	return s.repo.ListInteresting(ctx,
		ParseSortField(sortField), ParseSortDirection(sortDirection), strings.TrimSpace(category))
}

// CategoryCounts returns interesting-item counts across the full configured
// category universe.
func (s *QueryService) CategoryCounts(ctx context.Context) ([]domain.CategoryCount, error) {
	return s.repo.CategoryCounts(ctx)
}

// ParseSortField maps a request string onto the sort enumeration,
// defaulting to date.
func ParseSortField(value string) domain.SortField {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "score":
		return domain.SortByScore
	case "priority":
		return domain.SortByPriority
	default:
		return domain.SortByDate
	}
}

// ParseSortDirection maps a request string onto the direction enumeration,
// defaulting to descending.
func ParseSortDirection(value string) domain.SortDirection {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "asc", "ascending":
		return domain.SortAscending
	default:
		return domain.SortDescending
	}
}
