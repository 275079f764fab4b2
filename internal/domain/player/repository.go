package player

import "context"

type Repository interface {
	List(ctx context.Context, search string, limit int) ([]Player, error)
	Get(ctx context.Context, identifier string) (Player, bool, error)
}
