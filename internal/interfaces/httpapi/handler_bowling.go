package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/midwicket/crickstack/internal/domain/bowling"
)

type bowlingLeaderDTO struct {
	Bowler       string  `json:"bowler"`
	Innings      int64   `json:"innings"`
	TotalWickets int64   `json:"total_wickets"`
	AvgEconomy   float64 `json:"avg_economy"`
	BowlingAvg   float64 `json:"bowling_avg"`
}

type bowlingStatsDTO struct {
	Bowler            string  `json:"bowler"`
	Innings           int64   `json:"innings"`
	TotalWickets      int64   `json:"total_wickets"`
	TotalRunsConceded int64   `json:"total_runs_conceded"`
	AvgEconomy        float64 `json:"avg_economy"`
	BowlingAvg        float64 `json:"bowling_avg"`
	BestWickets       int64   `json:"best_wickets"`
	TotalDotBalls     int64   `json:"total_dot_balls"`
	TotalWides        int64   `json:"total_wides"`
	TotalNoballs      int64   `json:"total_noballs"`
}

type bowlingSeasonDTO struct {
	Season            string  `json:"season"`
	Innings           int64   `json:"innings"`
	TotalWickets      int64   `json:"total_wickets"`
	TotalRunsConceded int64   `json:"total_runs_conceded"`
	AvgEconomy        float64 `json:"avg_economy"`
	BestWickets       int64   `json:"best_wickets"`
}

type bowlingInningsDTO struct {
	MatchID      string  `json:"match_id"`
	Season       string  `json:"season"`
	MatchDate    string  `json:"match_date"`
	Innings      int64   `json:"innings"`
	Bowler       string  `json:"bowler"`
	BallsBowled  int64   `json:"balls_bowled"`
	RunsConceded int64   `json:"runs_conceded"`
	Wickets      int64   `json:"wickets"`
	EconomyRate  float64 `json:"economy_rate"`
	DotBalls     int64   `json:"dot_balls"`
	Wides        int64   `json:"wides"`
	Noballs      int64   `json:"noballs"`
}

func (h *Handler) TopWicketTakers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TopWicketTakers")
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

	leaders, err := h.bowlingService.TopWicketTakers(ctx, query.Season, query.Limit)
	if err != nil {
		h.logger.WarnContext(ctx, "top wicket takers failed", "season", query.Season, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]bowlingLeaderDTO, 0, len(leaders))
	for _, l := range leaders {
		items = append(items, bowlingLeaderToDTO(ctx, l))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetBowlingStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetBowlingStats")
	defer span.End()

	bowler := strings.TrimSpace(r.PathValue("player"))
	stats, err := h.bowlingService.PlayerStats(ctx, bowler)
	if err != nil {
		h.logger.WarnContext(ctx, "get bowling stats failed", "bowler", bowler, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, bowlingStatsToDTO(ctx, stats))
}

func (h *Handler) GetBowlingSeasonBreakdown(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetBowlingSeasonBreakdown")
	defer span.End()

	bowler := strings.TrimSpace(r.PathValue("player"))
	lines, err := h.bowlingService.SeasonBreakdown(ctx, bowler)
	if err != nil {
		h.logger.WarnContext(ctx, "bowling season breakdown failed", "bowler", bowler, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]bowlingSeasonDTO, 0, len(lines))
	for _, line := range lines {
		items = append(items, bowlingSeasonToDTO(ctx, line))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetMatchBowlingScorecard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchBowlingScorecard")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	lines, err := h.bowlingService.MatchScorecard(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "bowling scorecard failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, bowlingInningsToDTOs(ctx, lines))
}

func (h *Handler) GetPlayerBowlingHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerBowlingHistory")
	defer span.End()

	bowler := strings.TrimSpace(r.PathValue("player"))
	season := strings.TrimSpace(r.URL.Query().Get("season"))
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	lines, err := h.bowlingService.InningsHistory(ctx, bowler, season, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "bowling history failed", "bowler", bowler, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, bowlingInningsToDTOs(ctx, lines))
}

func bowlingLeaderToDTO(ctx context.Context, v bowling.Leader) bowlingLeaderDTO {
	return bowlingLeaderDTO{
		Bowler:       v.Bowler,
		Innings:      v.Innings,
		TotalWickets: v.TotalWickets,
		AvgEconomy:   v.AvgEconomy,
		BowlingAvg:   v.BowlingAvg,
	}
}

func bowlingStatsToDTO(ctx context.Context, v bowling.PlayerStats) bowlingStatsDTO {
	return bowlingStatsDTO{
		Bowler:            v.Bowler,
		Innings:           v.Innings,
		TotalWickets:      v.TotalWickets,
		TotalRunsConceded: v.TotalRunsConceded,
		AvgEconomy:        v.AvgEconomy,
		BowlingAvg:        v.BowlingAvg,
		BestWickets:       v.BestWickets,
		TotalDotBalls:     v.TotalDotBalls,
		TotalWides:        v.TotalWides,
		TotalNoballs:      v.TotalNoballs,
	}
}

func bowlingSeasonToDTO(ctx context.Context, v bowling.SeasonLine) bowlingSeasonDTO {
	return bowlingSeasonDTO{
		Season:            v.Season,
		Innings:           v.Innings,
		TotalWickets:      v.TotalWickets,
		TotalRunsConceded: v.TotalRunsConceded,
		AvgEconomy:        v.AvgEconomy,
		BestWickets:       v.BestWickets,
	}
}

func bowlingInningsToDTOs(ctx context.Context, lines []bowling.InningsLine) []bowlingInningsDTO {
	items := make([]bowlingInningsDTO, 0, len(lines))
	for _, v := range lines {
		items = append(items, bowlingInningsDTO{
			MatchID:      v.MatchID,
			Season:       v.Season,
			MatchDate:    v.MatchDate,
			Innings:      v.Innings,
			Bowler:       v.Bowler,
			BallsBowled:  v.BallsBowled,
			RunsConceded: v.RunsConceded,
			Wickets:      v.Wickets,
			EconomyRate:  v.EconomyRate,
			DotBalls:     v.DotBalls,
			Wides:        v.Wides,
			Noballs:      v.Noballs,
		})
	}
	return items
}
