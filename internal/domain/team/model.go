package team

// Team is an aggregate over the match dimension; teams have no standalone
// source record in Cricsheet.
type Team struct {
	Name    string
	Matches int64
	Wins    int64
	Seasons int64
}
