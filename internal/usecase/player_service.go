package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/midwicket/crickstack/internal/domain/player"
)

type PlayerService struct {
	playerRepo player.Repository
}

func NewPlayerService(playerRepo player.Repository) *PlayerService {
	return &PlayerService{playerRepo: playerRepo}
}

// List returns registry entries, optionally filtered by a case
// insensitive name search.
func (s *PlayerService) List(ctx context.Context, search string, limit int) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.List")
	defer span.End()

	limit, err := clampLimit(limit, defaultListLimit, maxListLimit)
	if err != nil {
		return nil, err
	}

	players, err := s.playerRepo.List(ctx, strings.TrimSpace(search), limit)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	return players, nil
}

func (s *PlayerService) Get(ctx context.Context, identifier string) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Get")
	defer span.End()

	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return player.Player{}, fmt.Errorf("%w: player identifier is required", ErrInvalidInput)
	}

	item, exists, err := s.playerRepo.Get(ctx, identifier)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return player.Player{}, fmt.Errorf("%w: player=%s", ErrNotFound, identifier)
	}
	return item, nil
}
