package series

// Series is one discovered ESPN series (IPL 2024, BBL 2023, ...). A season
// maps to exactly one series; once discovered the mapping never changes.
type Series struct {
	ID             int64
	Name           string
	Season         string
	Slug           string
	DiscoveredFrom string
}
