package enrichment

// MatchEnrichment is everything worth keeping from one ESPN match page:
// scheduling metadata plus per-team squads with captain and keeper roles,
// which Cricsheet does not carry.
type MatchEnrichment struct {
	CricsheetMatchID string
	ESPNMatchID      int64
	ESPNSeriesID     int64
	Floodlit         string
	StartDate        string
	StartTime        string
	Season           string
	Title            string
	Slug             string
	StatusText       string

	Team1Name    string
	Team1ESPNID  int64
	Team1Captain string
	Team1Keeper  string
	Team2Name    string
	Team2ESPNID  int64
	Team2Captain string
	Team2Keeper  string

	TeamsJSON string
}

// TeamSquad is the per-team slice of MatchEnrichment, serialized wholesale
// into TeamsJSON so downstream layers can unpack full squads.
type TeamSquad struct {
	TeamName     string        `json:"team_name"`
	TeamLongName string        `json:"team_long_name"`
	ESPNTeamID   int64         `json:"espn_team_id"`
	Players      []SquadPlayer `json:"players"`
}

type SquadPlayer struct {
	ESPNPlayerID   int64  `json:"espn_player_id"`
	PlayerName     string `json:"player_name"`
	PlayerLongName string `json:"player_long_name"`
	RoleCode       string `json:"role_code"`
	Role           string `json:"role"`
	IsCaptain      bool   `json:"is_captain"`
	IsKeeper       bool   `json:"is_keeper"`
}
