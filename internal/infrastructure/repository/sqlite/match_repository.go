package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/midwicket/crickstack/internal/domain/match"
	qb "github.com/midwicket/crickstack/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

var matchSelectColumns = []string{
	"match_id",
	"season",
	"match_date",
	"city",
	"venue",
	"team1",
	"team2",
	"match_type",
	"gender",
	"toss_winner",
	"toss_decision",
	"outcome_winner",
	"outcome_result",
	"player_of_match",
	"event_name",
}

type matchTableModel struct {
	MatchID       string         `db:"match_id"`
	Season        string         `db:"season"`
	MatchDate     sql.NullString `db:"match_date"`
	City          sql.NullString `db:"city"`
	Venue         sql.NullString `db:"venue"`
	Team1         sql.NullString `db:"team1"`
	Team2         sql.NullString `db:"team2"`
	MatchType     sql.NullString `db:"match_type"`
	Gender        sql.NullString `db:"gender"`
	TossWinner    sql.NullString `db:"toss_winner"`
	TossDecision  sql.NullString `db:"toss_decision"`
	OutcomeWinner sql.NullString `db:"outcome_winner"`
	OutcomeResult sql.NullString `db:"outcome_result"`
	PlayerOfMatch sql.NullString `db:"player_of_match"`
	EventName     sql.NullString `db:"event_name"`
}

func (m matchTableModel) toDomain() match.Match {
	return match.Match{
		MatchID:       m.MatchID,
		Season:        m.Season,
		MatchDate:     m.MatchDate.String,
		City:          m.City.String,
		Venue:         m.Venue.String,
		Team1:         m.Team1.String,
		Team2:         m.Team2.String,
		MatchType:     m.MatchType.String,
		Gender:        m.Gender.String,
		TossWinner:    m.TossWinner.String,
		TossDecision:  m.TossDecision.String,
		OutcomeWinner: m.OutcomeWinner.String,
		OutcomeResult: m.OutcomeResult.String,
		PlayerOfMatch: m.PlayerOfMatch.String,
		EventName:     m.EventName.String,
	}
}

func (r *MatchRepository) List(ctx context.Context, filter match.Filter) ([]match.Match, error) {
	builder := qb.Select(matchSelectColumns...).From("gold_dim_matches")

	var conditions []qb.Condition
	if filter.Season != "" {
		conditions = append(conditions, qb.Eq("season", filter.Season))
	}
	if filter.Team != "" {
		conditions = append(conditions, qb.Expr("(team1 = ? OR team2 = ?)", filter.Team, filter.Team))
	}
	if filter.Venue != "" {
		conditions = append(conditions, qb.Expr("venue LIKE ?", "%"+filter.Venue+"%"))
	}
	if len(conditions) > 0 {
		builder = builder.Where(conditions...)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query, args, err := builder.OrderBy("match_date DESC").Limit(limit).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matches query: %w", err)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *MatchRepository) Get(ctx context.Context, matchID string) (match.Match, bool, error) {
	query, args, err := qb.Select(matchSelectColumns...).From("gold_dim_matches").
		Where(qb.Eq("match_id", matchID)).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build select match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("select match: %w", err)
	}
	return row.toDomain(), true, nil
}

type seasonCountModel struct {
	Season  string `db:"season"`
	Matches int64  `db:"matches"`
}

func (r *MatchRepository) Seasons(ctx context.Context) ([]match.SeasonCount, error) {
	var rows []seasonCountModel
	err := r.db.SelectContext(ctx, &rows,
		`SELECT season, COUNT(*) AS matches FROM gold_dim_matches GROUP BY season ORDER BY season`)
	if err != nil {
		return nil, fmt.Errorf("select seasons: %w", err)
	}

	out := make([]match.SeasonCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, match.SeasonCount{Season: row.Season, Matches: row.Matches})
	}
	return out, nil
}

type venueTableModel struct {
	Venue   string         `db:"venue"`
	City    sql.NullString `db:"city"`
	Matches int64          `db:"matches"`
}

func (r *MatchRepository) Venues(ctx context.Context) ([]match.Venue, error) {
	var rows []venueTableModel
	err := r.db.SelectContext(ctx, &rows,
		`SELECT venue, city, matches FROM gold_dim_venues ORDER BY venue`)
	if err != nil {
		return nil, fmt.Errorf("select venues: %w", err)
	}

	out := make([]match.Venue, 0, len(rows))
	for _, row := range rows {
		out = append(out, match.Venue{Venue: row.Venue, City: row.City.String, Matches: row.Matches})
	}
	return out, nil
}

type summaryTableModel struct {
	MatchID     string         `db:"match_id"`
	Innings     int64          `db:"innings"`
	BattingTeam sql.NullString `db:"batting_team"`
	TotalRuns   int64          `db:"total_runs"`
	Wickets     int64          `db:"wickets"`
	Balls       int64          `db:"balls"`
}

func (r *MatchRepository) Summary(ctx context.Context, matchID string) ([]match.Summary, error) {
	var rows []summaryTableModel
	err := r.db.SelectContext(ctx, &rows, `
		SELECT match_id, innings, batting_team, total_runs, wickets, balls
		FROM gold_fact_match_summary
		WHERE match_id = $1
		ORDER BY innings`, matchID)
	if err != nil {
		return nil, fmt.Errorf("select match summary: %w", err)
	}

	out := make([]match.Summary, 0, len(rows))
	for _, row := range rows {
		out = append(out, match.Summary{
			MatchID:     row.MatchID,
			Innings:     row.Innings,
			BattingTeam: row.BattingTeam.String,
			TotalRuns:   row.TotalRuns,
			Wickets:     row.Wickets,
			Balls:       row.Balls,
		})
	}
	return out, nil
}
