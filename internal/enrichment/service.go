package enrichment

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/midwicket/crickstack/internal/bronze"
	"github.com/midwicket/crickstack/internal/platform/logging"
)

// EspnMatchesTable holds one row per scraped match.
const EspnMatchesTable = "bronze_espn_matches"

// EspnMatchesSchema is the bronze projection of MatchEnrichment.
var EspnMatchesSchema = bronze.Schema{
	{Name: "cricsheet_match_id", Type: bronze.TypeText},
	{Name: "espn_match_id", Type: bronze.TypeInteger},
	{Name: "espn_series_id", Type: bronze.TypeInteger},
	{Name: "floodlit", Type: bronze.TypeText},
	{Name: "start_date", Type: bronze.TypeText},
	{Name: "start_time", Type: bronze.TypeText},
	{Name: "season", Type: bronze.TypeText},
	{Name: "title", Type: bronze.TypeText},
	{Name: "slug", Type: bronze.TypeText},
	{Name: "status_text", Type: bronze.TypeText},
	{Name: "team1_name", Type: bronze.TypeText},
	{Name: "team1_espn_id", Type: bronze.TypeInteger},
	{Name: "team1_captain", Type: bronze.TypeText},
	{Name: "team1_keeper", Type: bronze.TypeText},
	{Name: "team2_name", Type: bronze.TypeText},
	{Name: "team2_espn_id", Type: bronze.TypeInteger},
	{Name: "team2_captain", Type: bronze.TypeText},
	{Name: "team2_keeper", Type: bronze.TypeText},
	{Name: "teams_enrichment_json", Type: bronze.TypeText},
}

// Scraper is the external site surface the service needs: one probe for
// series discovery and one full scrape per match.
type Scraper interface {
	DiscoverSeries(ctx context.Context, matchID string) (*Discovery, error)
	ScrapeMatch(ctx context.Context, matchID string, seriesID int64) (MatchEnrichment, error)
}

type ServiceConfig struct {
	DB       *sqlx.DB
	Store    *bronze.Store
	Resolver *Resolver
	Scraper  Scraper
	Delay    time.Duration
	Logger   *logging.Logger
}

// Service runs the enrichment pipeline: plan which matches still need a
// scrape, resolve their series ids, scrape each match with rate limiting,
// and append the results to bronze. Reruns only touch matches not yet
// scraped.
type Service struct {
	db       *sqlx.DB
	store    *bronze.Store
	resolver *Resolver
	scraper  Scraper
	delay    time.Duration
	logger   *logging.Logger

	sleep func(ctx context.Context, d time.Duration) error
}

func NewService(cfg ServiceConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		db:       cfg.DB,
		store:    cfg.Store,
		resolver: cfg.Resolver,
		scraper:  cfg.Scraper,
		delay:    cfg.Delay,
		logger:   logger,
		sleep:    sleepContext,
	}
}

// RunOptions narrows an enrichment run. Season and AllSeasons are
// mutually exclusive; at least one must be set.
type RunOptions struct {
	Season     string
	AllSeasons bool
	Limit      int
	DryRun     bool
}

// SeasonPlan is the per-season breakdown of a run, reported before any
// scraping starts.
type SeasonPlan struct {
	Season         string
	TotalMatches   int
	AlreadyScraped int
	ToScrape       int
}

type RunReport struct {
	Plan    []SeasonPlan
	Pending int
	Scraped int
	Loaded  int64
	Failed  []string
}

func (s *Service) Run(ctx context.Context, opts RunOptions) (RunReport, error) {
	if !opts.AllSeasons && opts.Season == "" {
		return RunReport{}, fmt.Errorf("either a season or all seasons must be requested")
	}
	if opts.AllSeasons && opts.Season != "" {
		return RunReport{}, fmt.Errorf("a season and all seasons cannot both be requested")
	}

	matches, err := s.listMatches(ctx, opts.Season)
	if err != nil {
		return RunReport{}, err
	}
	scraped, err := s.alreadyScraped(ctx)
	if err != nil {
		return RunReport{}, err
	}

	report := RunReport{Plan: buildPlan(matches, scraped)}
	for _, plan := range report.Plan {
		s.logger.InfoContext(ctx, "enrichment plan",
			"season", plan.Season, "total_matches", plan.TotalMatches,
			"already_scraped", plan.AlreadyScraped, "to_scrape", plan.ToScrape)
	}

	pending := make([]MatchSeason, 0, len(matches))
	for _, m := range matches {
		if _, done := scraped[m.MatchID]; !done {
			pending = append(pending, m)
		}
	}
	if opts.Limit > 0 && len(pending) > opts.Limit {
		pending = pending[:opts.Limit]
	}
	report.Pending = len(pending)

	s.logger.InfoContext(ctx, "enrichment summary",
		"pending", len(pending), "total_matches", len(matches), "already_scraped", len(scraped))

	if opts.DryRun || len(pending) == 0 {
		return report, nil
	}

	seriesByMatch, err := s.resolver.ResolveBatch(ctx, pending, s.scraper.DiscoverSeries)
	if err != nil {
		return report, err
	}

	records, failed, err := s.scrapePending(ctx, pending, seriesByMatch)
	report.Scraped = len(records)
	report.Failed = failed
	if err != nil {
		return report, err
	}

	loaded, err := s.load(ctx, records)
	if err != nil {
		return report, err
	}
	report.Loaded = loaded

	s.logger.InfoContext(ctx, "enrichment complete",
		"scraped", report.Scraped, "loaded", report.Loaded, "failed", len(report.Failed))
	return report, nil
}

func (s *Service) scrapePending(ctx context.Context, pending []MatchSeason, seriesByMatch map[string]int64) ([]MatchEnrichment, []string, error) {
	records := make([]MatchEnrichment, 0, len(pending))
	var failed []string

	for i, m := range pending {
		if i > 0 {
			if err := s.sleep(ctx, s.delay); err != nil {
				return records, failed, err
			}
		}

		seriesID, ok := seriesByMatch[m.MatchID]
		if !ok {
			s.logger.WarnContext(ctx, "skipping match without series id", "match_id", m.MatchID)
			failed = append(failed, m.MatchID)
			continue
		}

		s.logger.InfoContext(ctx, "scraping match",
			"match_id", m.MatchID, "series_id", seriesID,
			"progress", i+1, "of", len(pending))

		item, err := s.scraper.ScrapeMatch(ctx, m.MatchID, seriesID)
		if err != nil {
			if ctx.Err() != nil {
				return records, failed, ctx.Err()
			}
			s.logger.WarnContext(ctx, "scrape failed", "match_id", m.MatchID, "error", err)
			failed = append(failed, m.MatchID)
			continue
		}
		records = append(records, item)
	}
	return records, failed, nil
}

func (s *Service) load(ctx context.Context, records []MatchEnrichment) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	batch, err := bronze.NewBatch(EspnMatchesSchema)
	if err != nil {
		return 0, err
	}
	for _, r := range records {
		err := batch.Append(
			r.CricsheetMatchID,
			r.ESPNMatchID,
			r.ESPNSeriesID,
			r.Floodlit,
			r.StartDate,
			r.StartTime,
			r.Season,
			r.Title,
			r.Slug,
			r.StatusText,
			r.Team1Name,
			r.Team1ESPNID,
			r.Team1Captain,
			r.Team1Keeper,
			r.Team2Name,
			r.Team2ESPNID,
			r.Team2Captain,
			r.Team2Keeper,
			r.TeamsJSON,
		)
		if err != nil {
			return 0, err
		}
	}
	return s.store.Append(ctx, EspnMatchesTable, batch, "cricsheet_match_id")
}

// listMatches reads the enrichment worklist from the gold match dimension.
// An empty season selects every match.
func (s *Service) listMatches(ctx context.Context, season string) ([]MatchSeason, error) {
	query := `SELECT match_id, COALESCE(season, '') AS season
		FROM gold_dim_matches
		WHERE ($1 = '' OR season = $1)
		ORDER BY match_date, match_id`

	var rows []struct {
		MatchID string `db:"match_id"`
		Season  string `db:"season"`
	}
	if err := s.db.SelectContext(ctx, &rows, query, season); err != nil {
		return nil, fmt.Errorf("list matches for enrichment: %w", err)
	}

	out := make([]MatchSeason, 0, len(rows))
	for _, row := range rows {
		out = append(out, MatchSeason{MatchID: row.MatchID, Season: row.Season})
	}
	return out, nil
}

func (s *Service) alreadyScraped(ctx context.Context) (map[string]struct{}, error) {
	exists, err := s.store.TableExists(ctx, EspnMatchesTable)
	if err != nil {
		return nil, err
	}
	if !exists {
		return map[string]struct{}{}, nil
	}

	var ids []string
	if err := s.db.SelectContext(ctx, &ids,
		`SELECT cricsheet_match_id FROM `+EspnMatchesTable); err != nil {
		return nil, fmt.Errorf("list scraped matches: %w", err)
	}

	out := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out, nil
}

func buildPlan(matches []MatchSeason, scraped map[string]struct{}) []SeasonPlan {
	totals := make(map[string]*SeasonPlan)
	for _, m := range matches {
		plan, ok := totals[m.Season]
		if !ok {
			plan = &SeasonPlan{Season: m.Season}
			totals[m.Season] = plan
		}
		plan.TotalMatches++
		if _, done := scraped[m.MatchID]; done {
			plan.AlreadyScraped++
		}
	}

	seasons := make([]string, 0, len(totals))
	for season := range totals {
		seasons = append(seasons, season)
	}
	sort.Strings(seasons)

	out := make([]SeasonPlan, 0, len(seasons))
	for _, season := range seasons {
		plan := totals[season]
		plan.ToScrape = plan.TotalMatches - plan.AlreadyScraped
		out = append(out, *plan)
	}
	return out
}
