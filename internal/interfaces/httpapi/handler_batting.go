package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/midwicket/crickstack/internal/domain/batting"
)

type battingLeaderDTO struct {
	Batter        string  `json:"batter"`
	Innings       int64   `json:"innings"`
	TotalRuns     int64   `json:"total_runs"`
	AvgStrikeRate float64 `json:"avg_strike_rate"`
	TotalFours    int64   `json:"total_fours"`
	TotalSixes    int64   `json:"total_sixes"`
}

type battingStatsDTO struct {
	Batter        string  `json:"batter"`
	Innings       int64   `json:"innings"`
	TotalRuns     int64   `json:"total_runs"`
	HighestScore  int64   `json:"highest_score"`
	AvgRuns       float64 `json:"avg_runs"`
	AvgStrikeRate float64 `json:"avg_strike_rate"`
	TotalFours    int64   `json:"total_fours"`
	TotalSixes    int64   `json:"total_sixes"`
	TotalDotBalls int64   `json:"total_dot_balls"`
	Fifties       int64   `json:"fifties"`
	Centuries     int64   `json:"centuries"`
}

type battingSeasonDTO struct {
	Season        string  `json:"season"`
	Innings       int64   `json:"innings"`
	TotalRuns     int64   `json:"total_runs"`
	HighestScore  int64   `json:"highest_score"`
	AvgStrikeRate float64 `json:"avg_strike_rate"`
	Fours         int64   `json:"fours"`
	Sixes         int64   `json:"sixes"`
}

type battingInningsDTO struct {
	MatchID    string  `json:"match_id"`
	Season     string  `json:"season"`
	MatchDate  string  `json:"match_date"`
	Innings    int64   `json:"innings"`
	Batter     string  `json:"batter"`
	Team       string  `json:"team"`
	RunsScored int64   `json:"runs_scored"`
	BallsFaced int64   `json:"balls_faced"`
	Fours      int64   `json:"fours"`
	Sixes      int64   `json:"sixes"`
	StrikeRate float64 `json:"strike_rate"`
	IsOut      bool    `json:"is_out"`
}

type leaderboardQuery struct {
	Season string `validate:"omitempty,max=20"`
	Limit  int    `validate:"omitempty,min=1,max=100"`
}

func (h *Handler) TopRunScorers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TopRunScorers")
	defer span.End()

	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	query := leaderboardQuery{
		Season: strings.TrimSpace(r.URL.Query().Get("season")),
		Limit:  limit,
	}
	if err := h.validateQuery(ctx, query); err != nil {
		writeError(ctx, w, err)
		return
	}

	leaders, err := h.battingService.TopRunScorers(ctx, query.Season, query.Limit)
	if err != nil {
		h.logger.WarnContext(ctx, "top run scorers failed", "season", query.Season, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]battingLeaderDTO, 0, len(leaders))
	for _, l := range leaders {
		items = append(items, battingLeaderToDTO(ctx, l))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetBattingStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetBattingStats")
	defer span.End()

	batter := strings.TrimSpace(r.PathValue("player"))
	stats, err := h.battingService.PlayerStats(ctx, batter)
	if err != nil {
		h.logger.WarnContext(ctx, "get batting stats failed", "batter", batter, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, battingStatsToDTO(ctx, stats))
}

func (h *Handler) GetBattingSeasonBreakdown(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetBattingSeasonBreakdown")
	defer span.End()

	batter := strings.TrimSpace(r.PathValue("player"))
	lines, err := h.battingService.SeasonBreakdown(ctx, batter)
	if err != nil {
		h.logger.WarnContext(ctx, "batting season breakdown failed", "batter", batter, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]battingSeasonDTO, 0, len(lines))
	for _, line := range lines {
		items = append(items, battingSeasonToDTO(ctx, line))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetMatchBattingScorecard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchBattingScorecard")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	lines, err := h.battingService.MatchScorecard(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "batting scorecard failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, battingInningsToDTOs(ctx, lines))
}

func (h *Handler) GetPlayerBattingHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerBattingHistory")
	defer span.End()

	batter := strings.TrimSpace(r.PathValue("player"))
	season := strings.TrimSpace(r.URL.Query().Get("season"))
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	lines, err := h.battingService.InningsHistory(ctx, batter, season, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "batting history failed", "batter", batter, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, battingInningsToDTOs(ctx, lines))
}

func battingLeaderToDTO(ctx context.Context, v batting.Leader) battingLeaderDTO {
	return battingLeaderDTO{
		Batter:        v.Batter,
		Innings:       v.Innings,
		TotalRuns:     v.TotalRuns,
		AvgStrikeRate: v.AvgStrikeRate,
		TotalFours:    v.TotalFours,
		TotalSixes:    v.TotalSixes,
	}
}

func battingStatsToDTO(ctx context.Context, v batting.PlayerStats) battingStatsDTO {
	return battingStatsDTO{
		Batter:        v.Batter,
		Innings:       v.Innings,
		TotalRuns:     v.TotalRuns,
		HighestScore:  v.HighestScore,
		AvgRuns:       v.AvgRuns,
		AvgStrikeRate: v.AvgStrikeRate,
		TotalFours:    v.TotalFours,
		TotalSixes:    v.TotalSixes,
		TotalDotBalls: v.TotalDotBalls,
		Fifties:       v.Fifties,
		Centuries:     v.Centuries,
	}
}

func battingSeasonToDTO(ctx context.Context, v batting.SeasonLine) battingSeasonDTO {
	return battingSeasonDTO{
		Season:        v.Season,
		Innings:       v.Innings,
		TotalRuns:     v.TotalRuns,
		HighestScore:  v.HighestScore,
		AvgStrikeRate: v.AvgStrikeRate,
		Fours:         v.Fours,
		Sixes:         v.Sixes,
	}
}

func battingInningsToDTOs(ctx context.Context, lines []batting.InningsLine) []battingInningsDTO {
	items := make([]battingInningsDTO, 0, len(lines))
	for _, v := range lines {
		items = append(items, battingInningsDTO{
			MatchID:    v.MatchID,
			Season:     v.Season,
			MatchDate:  v.MatchDate,
			Innings:    v.Innings,
			Batter:     v.Batter,
			Team:       v.Team,
			RunsScored: v.RunsScored,
			BallsFaced: v.BallsFaced,
			Fours:      v.Fours,
			Sixes:      v.Sixes,
			StrikeRate: v.StrikeRate,
			IsOut:      v.IsOut,
		})
	}
	return items
}
