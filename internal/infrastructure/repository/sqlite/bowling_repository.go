package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/midwicket/crickstack/internal/domain/bowling"
)

type BowlingRepository struct {
	db *sqlx.DB
}

func NewBowlingRepository(db *sqlx.DB) *BowlingRepository {
	return &BowlingRepository{db: db}
}

const topWicketTakersQuery = `
SELECT bowler,
       COUNT(*) AS innings,
       SUM(wickets) AS total_wickets,
       ROUND(AVG(economy_rate), 2) AS avg_economy,
       ROUND(SUM(runs_conceded) * 1.0 / NULLIF(SUM(wickets), 0), 2) AS bowling_avg
FROM gold_fact_bowling_innings
WHERE ($1 = '' OR season = $1)
GROUP BY bowler
ORDER BY total_wickets DESC
LIMIT $2`

type bowlingLeaderModel struct {
	Bowler       string          `db:"bowler"`
	Innings      int64           `db:"innings"`
	TotalWickets int64           `db:"total_wickets"`
	AvgEconomy   sql.NullFloat64 `db:"avg_economy"`
	BowlingAvg   sql.NullFloat64 `db:"bowling_avg"`
}

func (r *BowlingRepository) TopWicketTakers(ctx context.Context, season string, limit int) ([]bowling.Leader, error) {
	if limit <= 0 {
		limit = 10
	}

	var rows []bowlingLeaderModel
	if err := r.db.SelectContext(ctx, &rows, topWicketTakersQuery, season, limit); err != nil {
		return nil, fmt.Errorf("select top wicket takers: %w", err)
	}

	out := make([]bowling.Leader, 0, len(rows))
	for _, row := range rows {
		out = append(out, bowling.Leader{
			Bowler:       row.Bowler,
			Innings:      row.Innings,
			TotalWickets: row.TotalWickets,
			AvgEconomy:   row.AvgEconomy.Float64,
			BowlingAvg:   row.BowlingAvg.Float64,
		})
	}
	return out, nil
}

const bowlingPlayerStatsQuery = `
SELECT bowler,
       COUNT(*) AS innings,
       SUM(wickets) AS total_wickets,
       SUM(runs_conceded) AS total_runs_conceded,
       ROUND(AVG(economy_rate), 2) AS avg_economy,
       ROUND(SUM(runs_conceded) * 1.0 / NULLIF(SUM(wickets), 0), 2) AS bowling_avg,
       MAX(wickets) AS best_wickets,
       SUM(dot_balls) AS total_dot_balls,
       SUM(wides) AS total_wides,
       SUM(noballs) AS total_noballs
FROM gold_fact_bowling_innings
WHERE bowler = $1
GROUP BY bowler`

type bowlingStatsModel struct {
	Bowler            string          `db:"bowler"`
	Innings           int64           `db:"innings"`
	TotalWickets      int64           `db:"total_wickets"`
	TotalRunsConceded int64           `db:"total_runs_conceded"`
	AvgEconomy        sql.NullFloat64 `db:"avg_economy"`
	BowlingAvg        sql.NullFloat64 `db:"bowling_avg"`
	BestWickets       int64           `db:"best_wickets"`
	TotalDotBalls     int64           `db:"total_dot_balls"`
	TotalWides        int64           `db:"total_wides"`
	TotalNoballs      int64           `db:"total_noballs"`
}

func (r *BowlingRepository) PlayerStats(ctx context.Context, bowler string) (bowling.PlayerStats, bool, error) {
	var row bowlingStatsModel
	if err := r.db.GetContext(ctx, &row, bowlingPlayerStatsQuery, bowler); err != nil {
		if isNotFound(err) {
			return bowling.PlayerStats{}, false, nil
		}
		return bowling.PlayerStats{}, false, fmt.Errorf("select bowling stats: %w", err)
	}
	return bowling.PlayerStats{
		Bowler:            row.Bowler,
		Innings:           row.Innings,
		TotalWickets:      row.TotalWickets,
		TotalRunsConceded: row.TotalRunsConceded,
		AvgEconomy:        row.AvgEconomy.Float64,
		BowlingAvg:        row.BowlingAvg.Float64,
		BestWickets:       row.BestWickets,
		TotalDotBalls:     row.TotalDotBalls,
		TotalWides:        row.TotalWides,
		TotalNoballs:      row.TotalNoballs,
	}, true, nil
}

const bowlingSeasonBreakdownQuery = `
SELECT season,
       COUNT(*) AS innings,
       SUM(wickets) AS total_wickets,
       SUM(runs_conceded) AS total_runs_conceded,
       ROUND(AVG(economy_rate), 2) AS avg_economy,
       MAX(wickets) AS best_wickets
FROM gold_fact_bowling_innings
WHERE bowler = $1
GROUP BY season
ORDER BY season`

type bowlingSeasonModel struct {
	Season            string          `db:"season"`
	Innings           int64           `db:"innings"`
	TotalWickets      int64           `db:"total_wickets"`
	TotalRunsConceded int64           `db:"total_runs_conceded"`
	AvgEconomy        sql.NullFloat64 `db:"avg_economy"`
	BestWickets       int64           `db:"best_wickets"`
}

func (r *BowlingRepository) SeasonBreakdown(ctx context.Context, bowler string) ([]bowling.SeasonLine, error) {
	var rows []bowlingSeasonModel
	if err := r.db.SelectContext(ctx, &rows, bowlingSeasonBreakdownQuery, bowler); err != nil {
		return nil, fmt.Errorf("select bowling season breakdown: %w", err)
	}

	out := make([]bowling.SeasonLine, 0, len(rows))
	for _, row := range rows {
		out = append(out, bowling.SeasonLine{
			Season:            row.Season,
			Innings:           row.Innings,
			TotalWickets:      row.TotalWickets,
			TotalRunsConceded: row.TotalRunsConceded,
			AvgEconomy:        row.AvgEconomy.Float64,
			BestWickets:       row.BestWickets,
		})
	}
	return out, nil
}

const bowlingInningsColumns = `match_id, season, match_date, innings, bowler,
       balls_bowled, runs_conceded, wickets, economy_rate, dot_balls, wides, noballs`

type bowlingInningsModel struct {
	MatchID      string          `db:"match_id"`
	Season       string          `db:"season"`
	MatchDate    sql.NullString  `db:"match_date"`
	Innings      int64           `db:"innings"`
	Bowler       string          `db:"bowler"`
	BallsBowled  int64           `db:"balls_bowled"`
	RunsConceded int64           `db:"runs_conceded"`
	Wickets      int64           `db:"wickets"`
	EconomyRate  sql.NullFloat64 `db:"economy_rate"`
	DotBalls     int64           `db:"dot_balls"`
	Wides        int64           `db:"wides"`
	Noballs      int64           `db:"noballs"`
}

func (m bowlingInningsModel) toDomain() bowling.InningsLine {
	return bowling.InningsLine{
		MatchID:      m.MatchID,
		Season:       m.Season,
		MatchDate:    m.MatchDate.String,
		Innings:      m.Innings,
		Bowler:       m.Bowler,
		BallsBowled:  m.BallsBowled,
		RunsConceded: m.RunsConceded,
		Wickets:      m.Wickets,
		EconomyRate:  m.EconomyRate.Float64,
		DotBalls:     m.DotBalls,
		Wides:        m.Wides,
		Noballs:      m.Noballs,
	}
}

func (r *BowlingRepository) MatchScorecard(ctx context.Context, matchID string) ([]bowling.InningsLine, error) {
	var rows []bowlingInningsModel
	err := r.db.SelectContext(ctx, &rows, `
		SELECT `+bowlingInningsColumns+`
		FROM gold_fact_bowling_innings
		WHERE match_id = $1
		ORDER BY innings, wickets DESC`, matchID)
	if err != nil {
		return nil, fmt.Errorf("select bowling scorecard: %w", err)
	}
	return bowlingInningsToDomain(rows), nil
}

func (r *BowlingRepository) InningsHistory(ctx context.Context, bowler, season string, limit int) ([]bowling.InningsLine, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows []bowlingInningsModel
	err := r.db.SelectContext(ctx, &rows, `
		SELECT `+bowlingInningsColumns+`
		FROM gold_fact_bowling_innings
		WHERE bowler = $1 AND ($2 = '' OR season = $2)
		ORDER BY match_date
		LIMIT $3`, bowler, season, limit)
	if err != nil {
		return nil, fmt.Errorf("select bowling innings history: %w", err)
	}
	return bowlingInningsToDomain(rows), nil
}

func bowlingInningsToDomain(rows []bowlingInningsModel) []bowling.InningsLine {
	out := make([]bowling.InningsLine, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out
}
