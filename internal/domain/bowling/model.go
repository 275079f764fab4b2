package bowling

// Leader is one row of a top-wicket-takers ranking. BowlingAvg is zero
// when the bowler has no wickets.
type Leader struct {
	Bowler       string
	Innings      int64
	TotalWickets int64
	AvgEconomy   float64
	BowlingAvg   float64
}

// PlayerStats aggregates a bowler's career across all seasons.
type PlayerStats struct {
	Bowler            string
	Innings           int64
	TotalWickets      int64
	TotalRunsConceded int64
	AvgEconomy        float64
	BowlingAvg        float64
	BestWickets       int64
	TotalDotBalls     int64
	TotalWides        int64
	TotalNoballs      int64
}

// SeasonLine is one season's slice of a bowler's career.
type SeasonLine struct {
	Season            string
	Innings           int64
	TotalWickets      int64
	TotalRunsConceded int64
	AvgEconomy        float64
	BestWickets       int64
}

// InningsLine is one bowler's spell in one match (scorecard row).
type InningsLine struct {
	MatchID      string
	Season       string
	MatchDate    string
	Innings      int64
	Bowler       string
	BallsBowled  int64
	RunsConceded int64
	Wickets      int64
	EconomyRate  float64
	DotBalls     int64
	Wides        int64
	Noballs      int64
}
