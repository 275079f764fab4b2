package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/midwicket/crickstack/internal/domain/match"
	"github.com/midwicket/crickstack/internal/domain/player"
	"github.com/midwicket/crickstack/internal/domain/team"
)

type stubTeamRepo struct {
	item    team.Team
	found   bool
	matches []match.Match
}

func (r *stubTeamRepo) List(_ context.Context) ([]team.Team, error) {
	return []team.Team{r.item}, nil
}

func (r *stubTeamRepo) Get(_ context.Context, _ string) (team.Team, bool, error) {
	return r.item, r.found, nil
}

func (r *stubTeamRepo) Matches(_ context.Context, _, _ string) ([]match.Match, error) {
	return r.matches, nil
}

type stubPlayerRepo struct {
	players []player.Player
	item    player.Player
	found   bool
}

func (r *stubPlayerRepo) List(_ context.Context, _ string, _ int) ([]player.Player, error) {
	return r.players, nil
}

func (r *stubPlayerRepo) Get(_ context.Context, _ string) (player.Player, bool, error) {
	return r.item, r.found, nil
}

func TestTeamService_MatchesChecksTeamExists(t *testing.T) {
	repo := &stubTeamRepo{
		item:    team.Team{Name: "Knights", Matches: 14},
		found:   true,
		matches: []match.Match{{MatchID: "m_1"}},
	}
	svc := NewTeamService(repo)
	ctx := context.Background()

	matches, err := svc.Matches(ctx, "Knights", "2024")
	require.NoError(t, err)
	require.Len(t, matches, 1)

	repo.found = false
	_, err = svc.Matches(ctx, "Ghosts", "")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Matches(ctx, "", "")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestTeamService_Get(t *testing.T) {
	svc := NewTeamService(&stubTeamRepo{item: team.Team{Name: "Knights"}, found: true})
	item, err := svc.Get(context.Background(), "Knights")
	require.NoError(t, err)
	require.Equal(t, "Knights", item.Name)
}

func TestPlayerService_Get(t *testing.T) {
	repo := &stubPlayerRepo{
		item:  player.Player{Identifier: "abc123", Name: "A Batter"},
		found: true,
	}
	svc := NewPlayerService(repo)

	item, err := svc.Get(context.Background(), "abc123")
	require.NoError(t, err)
	require.Equal(t, "A Batter", item.Name)

	repo.found = false
	_, err = svc.Get(context.Background(), "zzz999")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Get(context.Background(), " ")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestPlayerService_ListLimitValidation(t *testing.T) {
	svc := NewPlayerService(&stubPlayerRepo{})
	_, err := svc.List(context.Background(), "", 501)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.List(context.Background(), "batter", 0)
	require.NoError(t, err)
}
