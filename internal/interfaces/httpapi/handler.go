package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/midwicket/crickstack/internal/platform/logging"
	"github.com/midwicket/crickstack/internal/usecase"
)

type Handler struct {
	battingService *usecase.BattingService
	bowlingService *usecase.BowlingService
	matchService   *usecase.MatchService
	playerService  *usecase.PlayerService
	teamService    *usecase.TeamService
	logger         *logging.Logger
	validator      *validator.Validate
}

func NewHandler(
	battingService *usecase.BattingService,
	bowlingService *usecase.BowlingService,
	matchService *usecase.MatchService,
	playerService *usecase.PlayerService,
	teamService *usecase.TeamService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		battingService: battingService,
		bowlingService: bowlingService,
		matchService:   matchService,
		playerService:  playerService,
		teamService:    teamService,
		logger:         logger,
		validator:      validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateQuery(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateQuery")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// queryInt reads an optional integer query parameter. Absent values
// return the fallback untouched.
func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", usecase.ErrInvalidInput, name)
	}
	return v, nil
}
