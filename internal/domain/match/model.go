package match

// Match is one row of the gold match dimension.
type Match struct {
	MatchID       string
	Season        string
	MatchDate     string
	City          string
	Venue         string
	Team1         string
	Team2         string
	MatchType     string
	Gender        string
	TossWinner    string
	TossDecision  string
	OutcomeWinner string
	OutcomeResult string
	PlayerOfMatch string
	EventName     string
}

// SeasonCount is one season with its match count.
type SeasonCount struct {
	Season  string
	Matches int64
}

// Venue is one row of the venue dimension.
type Venue struct {
	Venue   string
	City    string
	Matches int64
}

// Summary is a team-level innings summary for one match.
type Summary struct {
	MatchID     string
	Innings     int64
	BattingTeam string
	TotalRuns   int64
	Wickets     int64
	Balls       int64
}

// Filter narrows a match listing. Zero values mean no constraint.
type Filter struct {
	Season string
	Team   string
	Venue  string
	Limit  int
	Offset int
}
