package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/midwicket/crickstack/internal/domain/batting"
	"github.com/midwicket/crickstack/internal/platform/cache"
)

const (
	defaultLeaderLimit = 10
	maxLeaderLimit     = 100
	defaultListLimit   = 50
	maxListLimit       = 500
)

type BattingService struct {
	battingRepo batting.Repository
	cacheStore  *cache.Store
}

// NewBattingService wires batting reads. cacheStore may be nil to disable
// leaderboard caching.
func NewBattingService(battingRepo batting.Repository, cacheStore *cache.Store) *BattingService {
	return &BattingService{
		battingRepo: battingRepo,
		cacheStore:  cacheStore,
	}
}

// TopRunScorers returns the run leaderboard, optionally narrowed to one
// season. Leaderboards are cached; the gold layer only moves on ingest.
func (s *BattingService) TopRunScorers(ctx context.Context, season string, limit int) ([]batting.Leader, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BattingService.TopRunScorers")
	defer span.End()

	season = strings.TrimSpace(season)
	limit, err := clampLimit(limit, defaultLeaderLimit, maxLeaderLimit)
	if err != nil {
		return nil, err
	}

	if s.cacheStore == nil {
		return s.battingRepo.TopRunScorers(ctx, season, limit)
	}

	key := fmt.Sprintf("batting:top:%s:%d", season, limit)
	out, err := s.cacheStore.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return s.battingRepo.TopRunScorers(ctx, season, limit)
	})
	if err != nil {
		return nil, fmt.Errorf("top run scorers: %w", err)
	}
	leaders, ok := out.([]batting.Leader)
	if !ok {
		return nil, fmt.Errorf("unexpected cached payload type %T", out)
	}
	return leaders, nil
}

func (s *BattingService) PlayerStats(ctx context.Context, batter string) (batting.PlayerStats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BattingService.PlayerStats")
	defer span.End()

	batter = strings.TrimSpace(batter)
	if batter == "" {
		return batting.PlayerStats{}, fmt.Errorf("%w: player name is required", ErrInvalidInput)
	}

	stats, exists, err := s.battingRepo.PlayerStats(ctx, batter)
	if err != nil {
		return batting.PlayerStats{}, fmt.Errorf("player batting stats: %w", err)
	}
	if !exists {
		return batting.PlayerStats{}, fmt.Errorf("%w: no batting innings for player=%s", ErrNotFound, batter)
	}
	return stats, nil
}

func (s *BattingService) SeasonBreakdown(ctx context.Context, batter string) ([]batting.SeasonLine, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BattingService.SeasonBreakdown")
	defer span.End()

	batter = strings.TrimSpace(batter)
	if batter == "" {
		return nil, fmt.Errorf("%w: player name is required", ErrInvalidInput)
	}

	lines, err := s.battingRepo.SeasonBreakdown(ctx, batter)
	if err != nil {
		return nil, fmt.Errorf("batting season breakdown: %w", err)
	}
	return lines, nil
}

func (s *BattingService) MatchScorecard(ctx context.Context, matchID string) ([]batting.InningsLine, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BattingService.MatchScorecard")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	lines, err := s.battingRepo.MatchScorecard(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("batting scorecard: %w", err)
	}
	return lines, nil
}

func (s *BattingService) InningsHistory(ctx context.Context, batter, season string, limit int) ([]batting.InningsLine, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BattingService.InningsHistory")
	defer span.End()

	batter = strings.TrimSpace(batter)
	if batter == "" {
		return nil, fmt.Errorf("%w: player name is required", ErrInvalidInput)
	}
	limit, err := clampLimit(limit, defaultListLimit, maxListLimit)
	if err != nil {
		return nil, err
	}

	lines, err := s.battingRepo.InningsHistory(ctx, batter, strings.TrimSpace(season), limit)
	if err != nil {
		return nil, fmt.Errorf("batting innings history: %w", err)
	}
	return lines, nil
}

func clampLimit(limit, fallback, max int) (int, error) {
	if limit == 0 {
		return fallback, nil
	}
	if limit < 0 || limit > max {
		return 0, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidInput, max)
	}
	return limit, nil
}
