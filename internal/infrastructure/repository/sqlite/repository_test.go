package sqlite

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/midwicket/crickstack/db"
	"github.com/midwicket/crickstack/internal/domain/match"
)

func newMigratedDB(t *testing.T) *sqlx.DB {
	t.Helper()

	handle, err := OpenMemory()
	if err != nil {
		t.Fatalf("open memory db: %v", err)
	}
	t.Cleanup(func() { _ = handle.Close() })

	if err := db.Migrate(handle); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return handle
}

func seedMatches(t *testing.T, handle *sqlx.DB) {
	t.Helper()

	mustExec(t, handle, `
		INSERT INTO bronze_matches
			(match_id, season, match_date, city, venue, team1, team2, match_type, gender,
			 toss_winner, toss_decision, outcome_winner, player_of_match, event_name)
		VALUES
			('m1', '2023', '2023-04-01', 'Kolkata', 'Eden Gardens', 'Knights', 'Royals',
			 'T20', 'male', 'Knights', 'bat', 'Knights', 'X Batter', 'Premier League'),
			('m2', '2024', '2024-04-05', 'Mumbai', 'Wankhede Stadium', 'Knights', 'Titans',
			 'T20', 'male', 'Titans', 'field', 'Titans', 'C Star', 'Premier League')`)

	// m1 innings 1: boundary four, six, a wide, a single, then a bowled wicket.
	mustExec(t, handle, `
		INSERT INTO bronze_deliveries
			(match_id, innings, batting_team, is_super_over, over_num, ball_num,
			 batter, bowler, non_striker, batter_runs, extras_runs, total_runs,
			 extras_wides, is_wicket, wicket_player_out, wicket_kind)
		VALUES
			('m1', 1, 'Knights', 0, 0, 1, 'X Batter', 'Y Bowler', 'Z Batter', 4, 0, 4, NULL, 0, NULL, NULL),
			('m1', 1, 'Knights', 0, 0, 2, 'X Batter', 'Y Bowler', 'Z Batter', 6, 0, 6, NULL, 0, NULL, NULL),
			('m1', 1, 'Knights', 0, 0, 3, 'X Batter', 'Y Bowler', 'Z Batter', 0, 1, 1, 1, 0, NULL, NULL),
			('m1', 1, 'Knights', 0, 0, 4, 'X Batter', 'Y Bowler', 'Z Batter', 1, 0, 1, NULL, 0, NULL, NULL),
			('m1', 1, 'Knights', 0, 0, 5, 'Z Batter', 'Y Bowler', 'X Batter', 0, 0, 0, NULL, 1, 'Z Batter', 'bowled'),
			('m1', 1, 'Knights', 1, 0, 1, 'X Batter', 'Y Bowler', 'Z Batter', 6, 0, 6, NULL, 0, NULL, NULL)`)
}

func mustExec(t *testing.T, handle *sqlx.DB, query string, args ...any) {
	t.Helper()
	if _, err := handle.Exec(query, args...); err != nil {
		t.Fatalf("exec %q: %v", query, err)
	}
}

func TestMatchRepository_ListAndFilters(t *testing.T) {
	handle := newMigratedDB(t)
	seedMatches(t, handle)
	repo := NewMatchRepository(handle)
	ctx := context.Background()

	all, err := repo.List(ctx, match.Filter{})
	if err != nil {
		t.Fatalf("list matches: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(all))
	}
	if all[0].MatchID != "m2" {
		t.Fatalf("expected newest match first, got %s", all[0].MatchID)
	}

	bySeason, err := repo.List(ctx, match.Filter{Season: "2023"})
	if err != nil {
		t.Fatalf("list by season: %v", err)
	}
	if len(bySeason) != 1 || bySeason[0].MatchID != "m1" {
		t.Fatalf("season filter returned %+v", bySeason)
	}

	byVenue, err := repo.List(ctx, match.Filter{Venue: "Eden"})
	if err != nil {
		t.Fatalf("list by venue: %v", err)
	}
	if len(byVenue) != 1 || byVenue[0].Venue != "Eden Gardens" {
		t.Fatalf("venue filter returned %+v", byVenue)
	}

	byTeam, err := repo.List(ctx, match.Filter{Team: "Titans"})
	if err != nil {
		t.Fatalf("list by team: %v", err)
	}
	if len(byTeam) != 1 || byTeam[0].MatchID != "m2" {
		t.Fatalf("team filter returned %+v", byTeam)
	}
}

func TestMatchRepository_GetAndNotFound(t *testing.T) {
	handle := newMigratedDB(t)
	seedMatches(t, handle)
	repo := NewMatchRepository(handle)
	ctx := context.Background()

	got, found, err := repo.Get(ctx, "m1")
	if err != nil {
		t.Fatalf("get match: %v", err)
	}
	if !found {
		t.Fatal("expected m1 to exist")
	}
	if got.Venue != "Eden Gardens" || got.OutcomeWinner != "Knights" {
		t.Fatalf("unexpected match: %+v", got)
	}

	_, found, err = repo.Get(ctx, "missing")
	if err != nil {
		t.Fatalf("get missing match: %v", err)
	}
	if found {
		t.Fatal("expected missing match to be reported as absent")
	}
}

func TestMatchRepository_SeasonsVenuesSummary(t *testing.T) {
	handle := newMigratedDB(t)
	seedMatches(t, handle)
	repo := NewMatchRepository(handle)
	ctx := context.Background()

	seasons, err := repo.Seasons(ctx)
	if err != nil {
		t.Fatalf("seasons: %v", err)
	}
	if len(seasons) != 2 || seasons[0].Season != "2023" || seasons[0].Matches != 1 {
		t.Fatalf("unexpected seasons: %+v", seasons)
	}

	venues, err := repo.Venues(ctx)
	if err != nil {
		t.Fatalf("venues: %v", err)
	}
	if len(venues) != 2 || venues[0].Venue != "Eden Gardens" || venues[0].City != "Kolkata" {
		t.Fatalf("unexpected venues: %+v", venues)
	}

	summary, err := repo.Summary(ctx, "m1")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(summary) != 1 {
		t.Fatalf("expected 1 innings summary, got %d", len(summary))
	}
	line := summary[0]
	if line.TotalRuns != 12 || line.Wickets != 1 || line.Balls != 5 {
		t.Fatalf("unexpected summary line: %+v", line)
	}
}

func TestBattingRepository_GoldAggregates(t *testing.T) {
	handle := newMigratedDB(t)
	seedMatches(t, handle)
	repo := NewBattingRepository(handle)
	ctx := context.Background()

	leaders, err := repo.TopRunScorers(ctx, "", 10)
	if err != nil {
		t.Fatalf("top run scorers: %v", err)
	}
	if len(leaders) != 2 {
		t.Fatalf("expected 2 batters, got %d", len(leaders))
	}
	top := leaders[0]
	if top.Batter != "X Batter" || top.TotalRuns != 11 {
		t.Fatalf("unexpected leader: %+v", top)
	}
	if top.TotalFours != 1 || top.TotalSixes != 1 {
		t.Fatalf("boundary counts wrong (super over must be excluded): %+v", top)
	}

	stats, found, err := repo.PlayerStats(ctx, "X Batter")
	if err != nil {
		t.Fatalf("player stats: %v", err)
	}
	if !found {
		t.Fatal("expected stats for X Batter")
	}
	// 11 runs off 3 legal balls faced (the wide does not count).
	if stats.TotalRuns != 11 || stats.AvgStrikeRate != 366.67 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	card, err := repo.MatchScorecard(ctx, "m1")
	if err != nil {
		t.Fatalf("scorecard: %v", err)
	}
	if len(card) != 2 {
		t.Fatalf("expected 2 scorecard rows, got %d", len(card))
	}
	if card[0].Batter != "X Batter" || card[0].IsOut {
		t.Fatalf("unexpected first row: %+v", card[0])
	}
	if card[1].Batter != "Z Batter" || !card[1].IsOut {
		t.Fatalf("expected Z Batter out: %+v", card[1])
	}

	_, found, err = repo.PlayerStats(ctx, "Nobody")
	if err != nil {
		t.Fatalf("player stats for unknown: %v", err)
	}
	if found {
		t.Fatal("expected no stats for unknown batter")
	}
}

func TestBowlingRepository_GoldAggregates(t *testing.T) {
	handle := newMigratedDB(t)
	seedMatches(t, handle)
	repo := NewBowlingRepository(handle)
	ctx := context.Background()

	leaders, err := repo.TopWicketTakers(ctx, "2023", 10)
	if err != nil {
		t.Fatalf("top wicket takers: %v", err)
	}
	if len(leaders) != 1 {
		t.Fatalf("expected 1 bowler, got %d", len(leaders))
	}
	top := leaders[0]
	if top.Bowler != "Y Bowler" || top.TotalWickets != 1 {
		t.Fatalf("unexpected leader: %+v", top)
	}
	// 12 conceded per wicket taken.
	if top.BowlingAvg != 12 {
		t.Fatalf("unexpected bowling average: %+v", top)
	}

	stats, found, err := repo.PlayerStats(ctx, "Y Bowler")
	if err != nil {
		t.Fatalf("bowling stats: %v", err)
	}
	if !found {
		t.Fatal("expected stats for Y Bowler")
	}
	// 4 legal balls, 11 off the bat plus 1 wide, economy 12*6/4.
	if stats.TotalRunsConceded != 12 || stats.AvgEconomy != 18 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.TotalWides != 1 || stats.TotalNoballs != 0 || stats.TotalDotBalls != 1 {
		t.Fatalf("unexpected extras: %+v", stats)
	}
}

func TestTeamRepository_AggregatesAcrossSeasons(t *testing.T) {
	handle := newMigratedDB(t)
	seedMatches(t, handle)
	repo := NewTeamRepository(handle)
	ctx := context.Background()

	teams, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list teams: %v", err)
	}
	if len(teams) != 3 {
		t.Fatalf("expected 3 teams, got %d", len(teams))
	}

	knights, found, err := repo.Get(ctx, "Knights")
	if err != nil {
		t.Fatalf("get team: %v", err)
	}
	if !found {
		t.Fatal("expected Knights to exist")
	}
	if knights.Matches != 2 || knights.Wins != 1 || knights.Seasons != 2 {
		t.Fatalf("unexpected team aggregate: %+v", knights)
	}

	matches, err := repo.Matches(ctx, "Knights", "2024")
	if err != nil {
		t.Fatalf("team matches: %v", err)
	}
	if len(matches) != 1 || matches[0].MatchID != "m2" {
		t.Fatalf("unexpected team matches: %+v", matches)
	}
}

func TestPlayerRepository_SearchAndGet(t *testing.T) {
	handle := newMigratedDB(t)
	mustExec(t, handle, `
		INSERT INTO bronze_people (identifier, name, unique_name, key_cricinfo) VALUES
			('p1', 'X Batter', 'X Batter', '1001'),
			('p2', 'Y Bowler', 'Y Bowler', '1002')`)
	repo := NewPlayerRepository(handle)
	ctx := context.Background()

	players, err := repo.List(ctx, "Batter", 10)
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	if len(players) != 1 || players[0].Identifier != "p1" {
		t.Fatalf("unexpected search result: %+v", players)
	}

	got, found, err := repo.Get(ctx, "p2")
	if err != nil {
		t.Fatalf("get player: %v", err)
	}
	if !found || got.Name != "Y Bowler" {
		t.Fatalf("unexpected player: %+v", got)
	}

	_, found, err = repo.Get(ctx, "p3")
	if err != nil {
		t.Fatalf("get missing player: %v", err)
	}
	if found {
		t.Fatal("expected missing player to be reported as absent")
	}
}
