package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/midwicket/crickstack/internal/domain/match"
)

type matchDTO struct {
	MatchID       string `json:"match_id"`
	Season        string `json:"season"`
	MatchDate     string `json:"match_date"`
	City          string `json:"city"`
	Venue         string `json:"venue"`
	Team1         string `json:"team1"`
	Team2         string `json:"team2"`
	MatchType     string `json:"match_type"`
	Gender        string `json:"gender"`
	TossWinner    string `json:"toss_winner"`
	TossDecision  string `json:"toss_decision"`
	OutcomeWinner string `json:"outcome_winner"`
	OutcomeResult string `json:"outcome_result"`
	PlayerOfMatch string `json:"player_of_match"`
	EventName     string `json:"event_name"`
}

type seasonCountDTO struct {
	Season  string `json:"season"`
	Matches int64  `json:"matches"`
}

type venueDTO struct {
	Venue   string `json:"venue"`
	City    string `json:"city"`
	Matches int64  `json:"matches"`
}

type matchSummaryDTO struct {
	MatchID     string `json:"match_id"`
	Innings     int64  `json:"innings"`
	BattingTeam string `json:"batting_team"`
	TotalRuns   int64  `json:"total_runs"`
	Wickets     int64  `json:"wickets"`
	Balls       int64  `json:"balls"`
}

type matchListQuery struct {
	Season string `validate:"omitempty,max=20"`
	Team   string `validate:"omitempty,max=100"`
	Venue  string `validate:"omitempty,max=200"`
	Limit  int    `validate:"omitempty,min=1,max=500"`
	Offset int    `validate:"omitempty,min=0"`
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	query := matchListQuery{
		Season: strings.TrimSpace(r.URL.Query().Get("season")),
		Team:   strings.TrimSpace(r.URL.Query().Get("team")),
		Venue:  strings.TrimSpace(r.URL.Query().Get("venue")),
		Limit:  limit,
		Offset: offset,
	}
	if err := h.validateQuery(ctx, query); err != nil {
		writeError(ctx, w, err)
		return
	}

	matches, err := h.matchService.List(ctx, match.Filter{
		Season: query.Season,
		Team:   query.Team,
		Venue:  query.Venue,
		Limit:  query.Limit,
		Offset: query.Offset,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "list matches failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchDTO, 0, len(matches))
	for _, m := range matches {
		items = append(items, matchToDTO(ctx, m))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	item, err := h.matchService.Get(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(ctx, item))
}

func (h *Handler) ListSeasons(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSeasons")
	defer span.End()

	seasons, err := h.matchService.Seasons(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list seasons failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]seasonCountDTO, 0, len(seasons))
	for _, s := range seasons {
		items = append(items, seasonCountDTO{Season: s.Season, Matches: s.Matches})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListVenues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListVenues")
	defer span.End()

	venues, err := h.matchService.Venues(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list venues failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]venueDTO, 0, len(venues))
	for _, v := range venues {
		items = append(items, venueDTO{Venue: v.Venue, City: v.City, Matches: v.Matches})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetMatchSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchSummary")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	summaries, err := h.matchService.Summary(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "match summary failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchSummaryDTO, 0, len(summaries))
	for _, s := range summaries {
		items = append(items, matchSummaryDTO{
			MatchID:     s.MatchID,
			Innings:     s.Innings,
			BattingTeam: s.BattingTeam,
			TotalRuns:   s.TotalRuns,
			Wickets:     s.Wickets,
			Balls:       s.Balls,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func matchToDTO(ctx context.Context, v match.Match) matchDTO {
	return matchDTO{
		MatchID:       v.MatchID,
		Season:        v.Season,
		MatchDate:     v.MatchDate,
		City:          v.City,
		Venue:         v.Venue,
		Team1:         v.Team1,
		Team2:         v.Team2,
		MatchType:     v.MatchType,
		Gender:        v.Gender,
		TossWinner:    v.TossWinner,
		TossDecision:  v.TossDecision,
		OutcomeWinner: v.OutcomeWinner,
		OutcomeResult: v.OutcomeResult,
		PlayerOfMatch: v.PlayerOfMatch,
		EventName:     v.EventName,
	}
}
