package match

import "context"

type Repository interface {
	List(ctx context.Context, filter Filter) ([]Match, error)
	Get(ctx context.Context, matchID string) (Match, bool, error)
	Seasons(ctx context.Context) ([]SeasonCount, error)
	Venues(ctx context.Context) ([]Venue, error)
	Summary(ctx context.Context, matchID string) ([]Summary, error)
}
