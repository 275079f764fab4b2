package team

import (
	"context"

	"github.com/midwicket/crickstack/internal/domain/match"
)

type Repository interface {
	List(ctx context.Context) ([]Team, error)
	Get(ctx context.Context, name string) (Team, bool, error)
	Matches(ctx context.Context, name, season string) ([]match.Match, error)
}
