package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/midwicket/crickstack/internal/domain/player"
)

type playerDTO struct {
	Identifier  string `json:"identifier"`
	Name        string `json:"name"`
	UniqueName  string `json:"unique_name"`
	KeyCricinfo string `json:"key_cricinfo"`
}

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	search := strings.TrimSpace(r.URL.Query().Get("search"))
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	players, err := h.playerService.List(ctx, search, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list players failed", "search", search, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]playerDTO, 0, len(players))
	for _, p := range players {
		items = append(items, playerToDTO(ctx, p))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayer")
	defer span.End()

	identifier := strings.TrimSpace(r.PathValue("identifier"))
	item, err := h.playerService.Get(ctx, identifier)
	if err != nil {
		h.logger.WarnContext(ctx, "get player failed", "identifier", identifier, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDTO(ctx, item))
}

func playerToDTO(ctx context.Context, v player.Player) playerDTO {
	return playerDTO{
		Identifier:  v.Identifier,
		Name:        v.Name,
		UniqueName:  v.UniqueName,
		KeyCricinfo: v.KeyCricinfo,
	}
}
