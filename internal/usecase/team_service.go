package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/midwicket/crickstack/internal/domain/match"
	"github.com/midwicket/crickstack/internal/domain/team"
)

type TeamService struct {
	teamRepo team.Repository
}

func NewTeamService(teamRepo team.Repository) *TeamService {
	return &TeamService{teamRepo: teamRepo}
}

func (s *TeamService) List(ctx context.Context) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.List")
	defer span.End()

	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return teams, nil
}

func (s *TeamService) Get(ctx context.Context, name string) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Get")
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" {
		return team.Team{}, fmt.Errorf("%w: team name is required", ErrInvalidInput)
	}

	item, exists, err := s.teamRepo.Get(ctx, name)
	if err != nil {
		return team.Team{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return team.Team{}, fmt.Errorf("%w: team=%s", ErrNotFound, name)
	}
	return item, nil
}

// Matches lists every match a team played, optionally narrowed to a
// season. Unknown teams yield ErrNotFound rather than an empty list.
func (s *TeamService) Matches(ctx context.Context, name, season string) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Matches")
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: team name is required", ErrInvalidInput)
	}

	_, exists, err := s.teamRepo.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: team=%s", ErrNotFound, name)
	}

	matches, err := s.teamRepo.Matches(ctx, name, strings.TrimSpace(season))
	if err != nil {
		return nil, fmt.Errorf("list team matches: %w", err)
	}
	return matches, nil
}
