package bowling

import "context"

type Repository interface {
	TopWicketTakers(ctx context.Context, season string, limit int) ([]Leader, error)
	PlayerStats(ctx context.Context, bowler string) (PlayerStats, bool, error)
	SeasonBreakdown(ctx context.Context, bowler string) ([]SeasonLine, error)
	MatchScorecard(ctx context.Context, matchID string) ([]InningsLine, error)
	InningsHistory(ctx context.Context, bowler, season string, limit int) ([]InningsLine, error)
}
