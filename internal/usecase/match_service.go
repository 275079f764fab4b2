package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/midwicket/crickstack/internal/domain/match"
)

type MatchService struct {
	matchRepo match.Repository
}

func NewMatchService(matchRepo match.Repository) *MatchService {
	return &MatchService{matchRepo: matchRepo}
}

func (s *MatchService) List(ctx context.Context, filter match.Filter) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.List")
	defer span.End()

	filter.Season = strings.TrimSpace(filter.Season)
	filter.Venue = strings.TrimSpace(filter.Venue)
	filter.Team = strings.TrimSpace(filter.Team)
	limit, err := clampLimit(filter.Limit, defaultListLimit, maxListLimit)
	if err != nil {
		return nil, err
	}
	filter.Limit = limit
	if filter.Offset < 0 {
		return nil, fmt.Errorf("%w: offset cannot be negative", ErrInvalidInput)
	}

	matches, err := s.matchRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return matches, nil
}

func (s *MatchService) Get(ctx context.Context, matchID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Get")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Match{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	item, exists, err := s.matchRepo.Get(ctx, matchID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	return item, nil
}

func (s *MatchService) Seasons(ctx context.Context) ([]match.SeasonCount, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Seasons")
	defer span.End()

	seasons, err := s.matchRepo.Seasons(ctx)
	if err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}
	return seasons, nil
}

func (s *MatchService) Venues(ctx context.Context) ([]match.Venue, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Venues")
	defer span.End()

	venues, err := s.matchRepo.Venues(ctx)
	if err != nil {
		return nil, fmt.Errorf("list venues: %w", err)
	}
	return venues, nil
}

// Summary returns the team-level innings totals of one match, both
// innings ordered first to last.
func (s *MatchService) Summary(ctx context.Context, matchID string) ([]match.Summary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Summary")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	summary, err := s.matchRepo.Summary(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("match summary: %w", err)
	}
	return summary, nil
}
