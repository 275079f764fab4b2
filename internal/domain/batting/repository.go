package batting

import "context"

type Repository interface {
	TopRunScorers(ctx context.Context, season string, limit int) ([]Leader, error)
	PlayerStats(ctx context.Context, batter string) (PlayerStats, bool, error)
	SeasonBreakdown(ctx context.Context, batter string) ([]SeasonLine, error)
	MatchScorecard(ctx context.Context, matchID string) ([]InningsLine, error)
	InningsHistory(ctx context.Context, batter, season string, limit int) ([]InningsLine, error)
}
