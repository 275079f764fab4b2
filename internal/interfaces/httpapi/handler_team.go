package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/midwicket/crickstack/internal/domain/team"
)

type teamDTO struct {
	Name    string `json:"name"`
	Matches int64  `json:"matches"`
	Wins    int64  `json:"wins"`
	Seasons int64  `json:"seasons"`
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	teams, err := h.teamService.List(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list teams failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamDTO, 0, len(teams))
	for _, t := range teams {
		items = append(items, teamToDTO(ctx, t))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeam")
	defer span.End()

	name := strings.TrimSpace(r.PathValue("name"))
	item, err := h.teamService.Get(ctx, name)
	if err != nil {
		h.logger.WarnContext(ctx, "get team failed", "team", name, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(ctx, item))
}

func (h *Handler) ListTeamMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeamMatches")
	defer span.End()

	name := strings.TrimSpace(r.PathValue("name"))
	season := strings.TrimSpace(r.URL.Query().Get("season"))
	matches, err := h.teamService.Matches(ctx, name, season)
	if err != nil {
		h.logger.WarnContext(ctx, "list team matches failed", "team", name, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchDTO, 0, len(matches))
	for _, m := range matches {
		items = append(items, matchToDTO(ctx, m))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func teamToDTO(ctx context.Context, v team.Team) teamDTO {
	return teamDTO{
		Name:    v.Name,
		Matches: v.Matches,
		Wins:    v.Wins,
		Seasons: v.Seasons,
	}
}
