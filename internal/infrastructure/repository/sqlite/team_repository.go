package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/midwicket/crickstack/internal/domain/match"
	"github.com/midwicket/crickstack/internal/domain/team"
)

type TeamRepository struct {
	db      *sqlx.DB
	matches *MatchRepository
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db, matches: NewMatchRepository(db)}
}

type teamTableModel struct {
	Name    string `db:"team_name"`
	Matches int64  `db:"matches"`
	Wins    int64  `db:"wins"`
	Seasons int64  `db:"seasons"`
}

func (m teamTableModel) toDomain() team.Team {
	return team.Team{
		Name:    m.Name,
		Matches: m.Matches,
		Wins:    m.Wins,
		Seasons: m.Seasons,
	}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	var rows []teamTableModel
	err := r.db.SelectContext(ctx, &rows,
		`SELECT team_name, matches, wins, seasons FROM gold_dim_teams ORDER BY team_name`)
	if err != nil {
		return nil, fmt.Errorf("select teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *TeamRepository) Get(ctx context.Context, name string) (team.Team, bool, error) {
	var row teamTableModel
	err := r.db.GetContext(ctx, &row,
		`SELECT team_name, matches, wins, seasons FROM gold_dim_teams WHERE team_name = $1`, name)
	if err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("select team: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *TeamRepository) Matches(ctx context.Context, name, season string) ([]match.Match, error) {
	return r.matches.List(ctx, match.Filter{Team: name, Season: season, Limit: 500})
}
