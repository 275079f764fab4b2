package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerStatsRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/batting/top", handler.TopRunScorers)
	mux.HandleFunc("GET /v1/batting/stats/{player}", handler.GetBattingStats)
	mux.HandleFunc("GET /v1/batting/season-breakdown/{player}", handler.GetBattingSeasonBreakdown)

	mux.HandleFunc("GET /v1/bowling/top", handler.TopWicketTakers)
	mux.HandleFunc("GET /v1/bowling/stats/{player}", handler.GetBowlingStats)
	mux.HandleFunc("GET /v1/bowling/season-breakdown/{player}", handler.GetBowlingSeasonBreakdown)

	mux.HandleFunc("GET /v1/matches", handler.ListMatches)
	mux.HandleFunc("GET /v1/matches/seasons", handler.ListSeasons)
	mux.HandleFunc("GET /v1/matches/venues", handler.ListVenues)
	mux.HandleFunc("GET /v1/matches/{matchID}", handler.GetMatch)
	mux.HandleFunc("GET /v1/matches/{matchID}/summary", handler.GetMatchSummary)
	mux.HandleFunc("GET /v1/matches/{matchID}/batting", handler.GetMatchBattingScorecard)
	mux.HandleFunc("GET /v1/matches/{matchID}/bowling", handler.GetMatchBowlingScorecard)

	mux.HandleFunc("GET /v1/players", handler.ListPlayers)
	mux.HandleFunc("GET /v1/players/{identifier}", handler.GetPlayer)
	mux.HandleFunc("GET /v1/players/{player}/batting", handler.GetPlayerBattingHistory)
	mux.HandleFunc("GET /v1/players/{player}/bowling", handler.GetPlayerBowlingHistory)

	mux.HandleFunc("GET /v1/teams", handler.ListTeams)
	mux.HandleFunc("GET /v1/teams/{name}", handler.GetTeam)
	mux.HandleFunc("GET /v1/teams/{name}/matches", handler.ListTeamMatches)
}
