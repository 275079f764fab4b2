package batting

// Leader is one row of a top-run-scorers ranking.
type Leader struct {
	Batter        string
	Innings       int64
	TotalRuns     int64
	AvgStrikeRate float64
	TotalFours    int64
	TotalSixes    int64
}

// PlayerStats aggregates a batter's career across all seasons.
type PlayerStats struct {
	Batter        string
	Innings       int64
	TotalRuns     int64
	HighestScore  int64
	AvgRuns       float64
	AvgStrikeRate float64
	TotalFours    int64
	TotalSixes    int64
	TotalDotBalls int64
	Fifties       int64
	Centuries     int64
}

// SeasonLine is one season's slice of a batter's career.
type SeasonLine struct {
	Season        string
	Innings       int64
	TotalRuns     int64
	HighestScore  int64
	AvgStrikeRate float64
	Fours         int64
	Sixes         int64
}

// InningsLine is one batter's innings in one match (scorecard row).
type InningsLine struct {
	MatchID    string
	Season     string
	MatchDate  string
	Innings    int64
	Batter     string
	Team       string
	RunsScored int64
	BallsFaced int64
	Fours      int64
	Sixes      int64
	StrikeRate float64
	IsOut      bool
}
