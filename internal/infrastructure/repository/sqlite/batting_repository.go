package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/midwicket/crickstack/internal/domain/batting"
)

type BattingRepository struct {
	db *sqlx.DB
}

func NewBattingRepository(db *sqlx.DB) *BattingRepository {
	return &BattingRepository{db: db}
}

const topRunScorersQuery = `
SELECT batter,
       COUNT(*) AS innings,
       SUM(runs_scored) AS total_runs,
       ROUND(AVG(strike_rate), 2) AS avg_strike_rate,
       SUM(fours) AS total_fours,
       SUM(sixes) AS total_sixes
FROM gold_fact_batting_innings
WHERE ($1 = '' OR season = $1)
GROUP BY batter
ORDER BY total_runs DESC
LIMIT $2`

type battingLeaderModel struct {
	Batter        string          `db:"batter"`
	Innings       int64           `db:"innings"`
	TotalRuns     int64           `db:"total_runs"`
	AvgStrikeRate sql.NullFloat64 `db:"avg_strike_rate"`
	TotalFours    int64           `db:"total_fours"`
	TotalSixes    int64           `db:"total_sixes"`
}

func (r *BattingRepository) TopRunScorers(ctx context.Context, season string, limit int) ([]batting.Leader, error) {
	if limit <= 0 {
		limit = 10
	}

	var rows []battingLeaderModel
	if err := r.db.SelectContext(ctx, &rows, topRunScorersQuery, season, limit); err != nil {
		return nil, fmt.Errorf("select top run scorers: %w", err)
	}

	out := make([]batting.Leader, 0, len(rows))
	for _, row := range rows {
		out = append(out, batting.Leader{
			Batter:        row.Batter,
			Innings:       row.Innings,
			TotalRuns:     row.TotalRuns,
			AvgStrikeRate: row.AvgStrikeRate.Float64,
			TotalFours:    row.TotalFours,
			TotalSixes:    row.TotalSixes,
		})
	}
	return out, nil
}

const battingPlayerStatsQuery = `
SELECT batter,
       COUNT(*) AS innings,
       SUM(runs_scored) AS total_runs,
       MAX(runs_scored) AS highest_score,
       ROUND(AVG(runs_scored), 2) AS avg_runs,
       ROUND(AVG(strike_rate), 2) AS avg_strike_rate,
       SUM(fours) AS total_fours,
       SUM(sixes) AS total_sixes,
       SUM(dot_balls) AS total_dot_balls,
       SUM(CASE WHEN runs_scored >= 50 AND runs_scored < 100 THEN 1 ELSE 0 END) AS fifties,
       SUM(CASE WHEN runs_scored >= 100 THEN 1 ELSE 0 END) AS centuries
FROM gold_fact_batting_innings
WHERE batter = $1
GROUP BY batter`

type battingStatsModel struct {
	Batter        string          `db:"batter"`
	Innings       int64           `db:"innings"`
	TotalRuns     int64           `db:"total_runs"`
	HighestScore  int64           `db:"highest_score"`
	AvgRuns       float64         `db:"avg_runs"`
	AvgStrikeRate sql.NullFloat64 `db:"avg_strike_rate"`
	TotalFours    int64           `db:"total_fours"`
	TotalSixes    int64           `db:"total_sixes"`
	TotalDotBalls int64           `db:"total_dot_balls"`
	Fifties       int64           `db:"fifties"`
	Centuries     int64           `db:"centuries"`
}

func (r *BattingRepository) PlayerStats(ctx context.Context, batter string) (batting.PlayerStats, bool, error) {
	var row battingStatsModel
	if err := r.db.GetContext(ctx, &row, battingPlayerStatsQuery, batter); err != nil {
		if isNotFound(err) {
			return batting.PlayerStats{}, false, nil
		}
		return batting.PlayerStats{}, false, fmt.Errorf("select batting stats: %w", err)
	}
	return batting.PlayerStats{
		Batter:        row.Batter,
		Innings:       row.Innings,
		TotalRuns:     row.TotalRuns,
		HighestScore:  row.HighestScore,
		AvgRuns:       row.AvgRuns,
		AvgStrikeRate: row.AvgStrikeRate.Float64,
		TotalFours:    row.TotalFours,
		TotalSixes:    row.TotalSixes,
		TotalDotBalls: row.TotalDotBalls,
		Fifties:       row.Fifties,
		Centuries:     row.Centuries,
	}, true, nil
}

const battingSeasonBreakdownQuery = `
SELECT season,
       COUNT(*) AS innings,
       SUM(runs_scored) AS total_runs,
       MAX(runs_scored) AS highest_score,
       ROUND(AVG(strike_rate), 2) AS avg_strike_rate,
       SUM(fours) AS fours,
       SUM(sixes) AS sixes
FROM gold_fact_batting_innings
WHERE batter = $1
GROUP BY season
ORDER BY season`

type battingSeasonModel struct {
	Season        string          `db:"season"`
	Innings       int64           `db:"innings"`
	TotalRuns     int64           `db:"total_runs"`
	HighestScore  int64           `db:"highest_score"`
	AvgStrikeRate sql.NullFloat64 `db:"avg_strike_rate"`
	Fours         int64           `db:"fours"`
	Sixes         int64           `db:"sixes"`
}

func (r *BattingRepository) SeasonBreakdown(ctx context.Context, batter string) ([]batting.SeasonLine, error) {
	var rows []battingSeasonModel
	if err := r.db.SelectContext(ctx, &rows, battingSeasonBreakdownQuery, batter); err != nil {
		return nil, fmt.Errorf("select batting season breakdown: %w", err)
	}

	out := make([]batting.SeasonLine, 0, len(rows))
	for _, row := range rows {
		out = append(out, batting.SeasonLine{
			Season:        row.Season,
			Innings:       row.Innings,
			TotalRuns:     row.TotalRuns,
			HighestScore:  row.HighestScore,
			AvgStrikeRate: row.AvgStrikeRate.Float64,
			Fours:         row.Fours,
			Sixes:         row.Sixes,
		})
	}
	return out, nil
}

const battingInningsColumns = `match_id, season, match_date, innings, batter, team,
       runs_scored, balls_faced, fours, sixes, strike_rate, is_out`

type battingInningsModel struct {
	MatchID    string          `db:"match_id"`
	Season     string          `db:"season"`
	MatchDate  sql.NullString  `db:"match_date"`
	Innings    int64           `db:"innings"`
	Batter     string          `db:"batter"`
	Team       sql.NullString  `db:"team"`
	RunsScored int64           `db:"runs_scored"`
	BallsFaced int64           `db:"balls_faced"`
	Fours      int64           `db:"fours"`
	Sixes      int64           `db:"sixes"`
	StrikeRate sql.NullFloat64 `db:"strike_rate"`
	IsOut      bool            `db:"is_out"`
}

func (m battingInningsModel) toDomain() batting.InningsLine {
	return batting.InningsLine{
		MatchID:    m.MatchID,
		Season:     m.Season,
		MatchDate:  m.MatchDate.String,
		Innings:    m.Innings,
		Batter:     m.Batter,
		Team:       m.Team.String,
		RunsScored: m.RunsScored,
		BallsFaced: m.BallsFaced,
		Fours:      m.Fours,
		Sixes:      m.Sixes,
		StrikeRate: m.StrikeRate.Float64,
		IsOut:      m.IsOut,
	}
}

func (r *BattingRepository) MatchScorecard(ctx context.Context, matchID string) ([]batting.InningsLine, error) {
	var rows []battingInningsModel
	err := r.db.SelectContext(ctx, &rows, `
		SELECT `+battingInningsColumns+`
		FROM gold_fact_batting_innings
		WHERE match_id = $1
		ORDER BY innings, runs_scored DESC`, matchID)
	if err != nil {
		return nil, fmt.Errorf("select batting scorecard: %w", err)
	}
	return battingInningsToDomain(rows), nil
}

func (r *BattingRepository) InningsHistory(ctx context.Context, batter, season string, limit int) ([]batting.InningsLine, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows []battingInningsModel
	err := r.db.SelectContext(ctx, &rows, `
		SELECT `+battingInningsColumns+`
		FROM gold_fact_batting_innings
		WHERE batter = $1 AND ($2 = '' OR season = $2)
		ORDER BY match_date
		LIMIT $3`, batter, season, limit)
	if err != nil {
		return nil, fmt.Errorf("select batting innings history: %w", err)
	}
	return battingInningsToDomain(rows), nil
}

func battingInningsToDomain(rows []battingInningsModel) []batting.InningsLine {
	out := make([]batting.InningsLine, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out
}
