package player

// Player is one row of the Cricsheet people registry.
type Player struct {
	Identifier  string
	Name        string
	UniqueName  string
	KeyCricinfo string
}
