package enrichment

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/midwicket/crickstack/db"
	"github.com/midwicket/crickstack/internal/bronze"
	"github.com/midwicket/crickstack/internal/infrastructure/repository/sqlite"
)

type stubScraper struct {
	discoveries map[string]*Discovery
	scrapeErrs  map[string]error
	probeCalls  []string
	scrapeCalls []string
}

func (s *stubScraper) DiscoverSeries(_ context.Context, matchID string) (*Discovery, error) {
	s.probeCalls = append(s.probeCalls, matchID)
	d, ok := s.discoveries[matchID]
	if !ok {
		return nil, fmt.Errorf("probe failed for %s", matchID)
	}
	return d, nil
}

func (s *stubScraper) ScrapeMatch(_ context.Context, matchID string, seriesID int64) (MatchEnrichment, error) {
	s.scrapeCalls = append(s.scrapeCalls, matchID)
	if err := s.scrapeErrs[matchID]; err != nil {
		return MatchEnrichment{}, err
	}
	return MatchEnrichment{
		CricsheetMatchID: matchID,
		ESPNSeriesID:     seriesID,
		Team1Captain:     "A Captain",
		TeamsJSON:        "[]",
	}, nil
}

func newServiceDB(t *testing.T) *sqlx.DB {
	t.Helper()
	handle, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	handle.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = handle.Close() })
	require.NoError(t, db.Migrate(handle))
	return handle
}

func seedGoldMatch(t *testing.T, handle *sqlx.DB, matchID, season, date string) {
	t.Helper()
	_, err := handle.Exec(
		`INSERT INTO bronze_matches (match_id, season, match_date, team1, team2)
		 VALUES ($1, $2, $3, 'Knights', 'Royals')`,
		matchID, season, date)
	require.NoError(t, err)
}

func newTestService(t *testing.T, handle *sqlx.DB, scraper Scraper) *Service {
	t.Helper()
	ctx := context.Background()
	store := bronze.NewStore(handle, nil)
	resolver := NewResolver(ctx, sqlite.NewSeriesRepository(handle), 0, nil)
	svc := NewService(ServiceConfig{
		DB:       handle,
		Store:    store,
		Resolver: resolver,
		Scraper:  scraper,
	})
	svc.sleep = func(context.Context, time.Duration) error { return nil }
	return svc
}

func TestService_DryRunPlansWithoutScraping(t *testing.T) {
	handle := newServiceDB(t)
	seedGoldMatch(t, handle, "m_1", "2023", "2023-04-01")
	seedGoldMatch(t, handle, "m_2", "2024", "2024-04-01")

	scraper := &stubScraper{}
	svc := newTestService(t, handle, scraper)

	report, err := svc.Run(context.Background(), RunOptions{AllSeasons: true, DryRun: true})
	require.NoError(t, err)
	require.Equal(t, 2, report.Pending)
	require.Empty(t, scraper.probeCalls)
	require.Empty(t, scraper.scrapeCalls)

	require.Len(t, report.Plan, 2)
	require.Equal(t, "2023", report.Plan[0].Season)
	require.Equal(t, 1, report.Plan[0].ToScrape)
}

func TestService_RunScrapesAndIsIdempotent(t *testing.T) {
	handle := newServiceDB(t)
	seedGoldMatch(t, handle, "m_1", "2024", "2024-04-01")
	seedGoldMatch(t, handle, "m_2", "2024", "2024-04-05")

	scraper := &stubScraper{
		discoveries: map[string]*Discovery{
			"m_1": {SeriesID: 77, SeriesName: "League 2024", Season: "2024", DiscoveredFrom: "m_1"},
		},
	}
	svc := newTestService(t, handle, scraper)
	ctx := context.Background()

	report, err := svc.Run(ctx, RunOptions{Season: "2024"})
	require.NoError(t, err)
	require.Equal(t, 2, report.Scraped)
	require.Equal(t, int64(2), report.Loaded)
	require.Empty(t, report.Failed)

	// One probe covered both matches of the season.
	require.Equal(t, []string{"m_1"}, scraper.probeCalls)
	require.Equal(t, []string{"m_1", "m_2"}, scraper.scrapeCalls)

	var seriesIDs []int64
	require.NoError(t, handle.Select(&seriesIDs,
		"SELECT espn_series_id FROM bronze_espn_matches ORDER BY cricsheet_match_id"))
	require.Equal(t, []int64{77, 77}, seriesIDs)

	// Rerun: everything already scraped, nothing new lands.
	report, err = svc.Run(ctx, RunOptions{Season: "2024"})
	require.NoError(t, err)
	require.Zero(t, report.Pending)
	require.Zero(t, report.Loaded)
	require.Len(t, scraper.scrapeCalls, 2)
}

func TestService_LimitBoundsTheRun(t *testing.T) {
	handle := newServiceDB(t)
	seedGoldMatch(t, handle, "m_1", "2024", "2024-04-01")
	seedGoldMatch(t, handle, "m_2", "2024", "2024-04-05")
	seedGoldMatch(t, handle, "m_3", "2024", "2024-04-09")

	scraper := &stubScraper{
		discoveries: map[string]*Discovery{
			"m_1": {SeriesID: 77, Season: "2024", DiscoveredFrom: "m_1"},
		},
	}
	svc := newTestService(t, handle, scraper)

	report, err := svc.Run(context.Background(), RunOptions{Season: "2024", Limit: 1})
	require.NoError(t, err)
	require.Equal(t, 1, report.Pending)
	require.Equal(t, int64(1), report.Loaded)
}

func TestService_ScrapeFailureIsReportedNotFatal(t *testing.T) {
	handle := newServiceDB(t)
	seedGoldMatch(t, handle, "m_1", "2024", "2024-04-01")
	seedGoldMatch(t, handle, "m_2", "2024", "2024-04-05")

	scraper := &stubScraper{
		discoveries: map[string]*Discovery{
			"m_1": {SeriesID: 77, Season: "2024", DiscoveredFrom: "m_1"},
		},
		scrapeErrs: map[string]error{"m_2": fmt.Errorf("page blocked")},
	}
	svc := newTestService(t, handle, scraper)

	report, err := svc.Run(context.Background(), RunOptions{Season: "2024"})
	require.NoError(t, err)
	require.Equal(t, 1, report.Scraped)
	require.Equal(t, []string{"m_2"}, report.Failed)
	require.Equal(t, int64(1), report.Loaded)
}

func TestService_RequiresScope(t *testing.T) {
	svc := newTestService(t, newServiceDB(t), &stubScraper{})
	_, err := svc.Run(context.Background(), RunOptions{})
	require.Error(t, err)
}

func TestService_RejectsConflictingScope(t *testing.T) {
	svc := newTestService(t, newServiceDB(t), &stubScraper{})
	_, err := svc.Run(context.Background(), RunOptions{Season: "2024", AllSeasons: true})
	require.ErrorContains(t, err, "cannot both be requested")
}
