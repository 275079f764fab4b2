package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/midwicket/crickstack/internal/domain/bowling"
	"github.com/midwicket/crickstack/internal/platform/cache"
)

type BowlingService struct {
	bowlingRepo bowling.Repository
	cacheStore  *cache.Store
}

func NewBowlingService(bowlingRepo bowling.Repository, cacheStore *cache.Store) *BowlingService {
	return &BowlingService{
		bowlingRepo: bowlingRepo,
		cacheStore:  cacheStore,
	}
}

func (s *BowlingService) TopWicketTakers(ctx context.Context, season string, limit int) ([]bowling.Leader, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BowlingService.TopWicketTakers")
	defer span.End()

	season = strings.TrimSpace(season)
	limit, err := clampLimit(limit, defaultLeaderLimit, maxLeaderLimit)
	if err != nil {
		return nil, err
	}

	if s.cacheStore == nil {
		return s.bowlingRepo.TopWicketTakers(ctx, season, limit)
	}

	key := fmt.Sprintf("bowling:top:%s:%d", season, limit)
	out, err := s.cacheStore.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return s.bowlingRepo.TopWicketTakers(ctx, season, limit)
	})
	if err != nil {
		return nil, fmt.Errorf("top wicket takers: %w", err)
	}
	leaders, ok := out.([]bowling.Leader)
	if !ok {
		return nil, fmt.Errorf("unexpected cached payload type %T", out)
	}
	return leaders, nil
}

func (s *BowlingService) PlayerStats(ctx context.Context, bowler string) (bowling.PlayerStats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BowlingService.PlayerStats")
	defer span.End()

	bowler = strings.TrimSpace(bowler)
	if bowler == "" {
		return bowling.PlayerStats{}, fmt.Errorf("%w: player name is required", ErrInvalidInput)
	}

	stats, exists, err := s.bowlingRepo.PlayerStats(ctx, bowler)
	if err != nil {
		return bowling.PlayerStats{}, fmt.Errorf("player bowling stats: %w", err)
	}
	if !exists {
		return bowling.PlayerStats{}, fmt.Errorf("%w: no bowling innings for player=%s", ErrNotFound, bowler)
	}
	return stats, nil
}

func (s *BowlingService) SeasonBreakdown(ctx context.Context, bowler string) ([]bowling.SeasonLine, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BowlingService.SeasonBreakdown")
	defer span.End()

	bowler = strings.TrimSpace(bowler)
	if bowler == "" {
		return nil, fmt.Errorf("%w: player name is required", ErrInvalidInput)
	}

	lines, err := s.bowlingRepo.SeasonBreakdown(ctx, bowler)
	if err != nil {
		return nil, fmt.Errorf("bowling season breakdown: %w", err)
	}
	return lines, nil
}

func (s *BowlingService) MatchScorecard(ctx context.Context, matchID string) ([]bowling.InningsLine, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BowlingService.MatchScorecard")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	lines, err := s.bowlingRepo.MatchScorecard(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("bowling scorecard: %w", err)
	}
	return lines, nil
}

func (s *BowlingService) InningsHistory(ctx context.Context, bowler, season string, limit int) ([]bowling.InningsLine, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BowlingService.InningsHistory")
	defer span.End()

	bowler = strings.TrimSpace(bowler)
	if bowler == "" {
		return nil, fmt.Errorf("%w: player name is required", ErrInvalidInput)
	}
	limit, err := clampLimit(limit, defaultListLimit, maxListLimit)
	if err != nil {
		return nil, err
	}

	lines, err := s.bowlingRepo.InningsHistory(ctx, bowler, strings.TrimSpace(season), limit)
	if err != nil {
		return nil, fmt.Errorf("bowling innings history: %w", err)
	}
	return lines, nil
}
