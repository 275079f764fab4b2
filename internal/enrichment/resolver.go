package enrichment

import (
	"context"
	"sort"
	"time"

	"github.com/midwicket/crickstack/internal/domain/series"
	"github.com/midwicket/crickstack/internal/platform/logging"
)

// MatchSeason is one resolution request: a match and the season it
// nominally belongs to.
type MatchSeason struct {
	MatchID string
	Season  string
}

// Discovery is the usable outcome of one probe. A nil Discovery with a nil
// error means the probe ran but found nothing to extract.
type Discovery struct {
	SeriesID       int64
	SeriesName     string
	Season         string
	Slug           string
	DiscoveredFrom string
}

// ProbeFunc asks the external site which series a match belongs to. It is
// rate limited upstream, so the resolver calls it at most once per unknown
// season and sleeps between calls.
type ProbeFunc func(ctx context.Context, matchID string) (*Discovery, error)

// Resolver maps match ids to ESPN series ids through a layered cache:
// an in-memory season map loaded from the series table at construction,
// then one probe per season still unknown. Discovery is monotonic; a
// resolved season never changes within the process lifetime.
type Resolver struct {
	repo   series.Repository
	logger *logging.Logger
	delay  time.Duration

	seasonCache map[string]int64
	matchCache  map[string]int64

	sleep func(ctx context.Context, d time.Duration) error
}

// NewResolver loads previously discovered series into memory. A load
// failure is reported but does not prevent construction: the resolver
// proceeds with an empty cache, trading reuse for availability.
func NewResolver(ctx context.Context, repo series.Repository, delay time.Duration, logger *logging.Logger) *Resolver {
	if logger == nil {
		logger = logging.Default()
	}

	r := &Resolver{
		repo:        repo,
		logger:      logger,
		delay:       delay,
		seasonCache: make(map[string]int64),
		matchCache:  make(map[string]int64),
		sleep:       sleepContext,
	}

	items, err := repo.LoadAll(ctx)
	if err != nil {
		logger.WarnContext(ctx, "series cache load failed, starting empty", "error", err)
		return r
	}
	for _, item := range items {
		r.seasonCache[item.Season] = item.ID
	}
	logger.InfoContext(ctx, "series cache loaded", "count", len(items))
	return r
}

// CacheSize is the number of seasons with a known series id.
func (r *Resolver) CacheSize() int {
	return len(r.seasonCache)
}

// Resolve handles a single match: cache lookups first, then at most one
// probe. The second return is false when the match could not be resolved.
func (r *Resolver) Resolve(ctx context.Context, matchID, season string, probe ProbeFunc) (int64, bool) {
	if id, ok := r.matchCache[matchID]; ok {
		return id, true
	}
	if season != "" {
		if id, ok := r.seasonCache[season]; ok {
			r.matchCache[matchID] = id
			return id, true
		}
	}
	if probe == nil {
		return 0, false
	}

	discovery, err := probe(ctx, matchID)
	if err != nil || discovery == nil {
		r.logger.WarnContext(ctx, "series discovery failed", "match_id", matchID, "season", season, "error", err)
		return 0, false
	}

	r.store(ctx, *discovery)
	r.matchCache[matchID] = discovery.SeriesID
	return discovery.SeriesID, true
}

// ResolveBatch resolves a whole batch with one probe per unknown season.
// Seasons are probed in sorted order so reruns after partial failures are
// reproducible. A failed season is logged and skipped; its matches are
// simply absent from the returned mapping. The only hard error is context
// cancellation, which aborts the remaining probes.
func (r *Resolver) ResolveBatch(ctx context.Context, members []MatchSeason, probe ProbeFunc) (map[string]int64, error) {
	result := make(map[string]int64, len(members))
	if len(members) == 0 {
		return result, nil
	}

	// Known seasons resolve without probing.
	for _, m := range members {
		if _, ok := r.matchCache[m.MatchID]; ok {
			continue
		}
		if id, ok := r.seasonCache[m.Season]; ok {
			r.matchCache[m.MatchID] = id
		}
	}

	unknown := make(map[string][]MatchSeason)
	for _, m := range members {
		if _, ok := r.matchCache[m.MatchID]; !ok {
			unknown[m.Season] = append(unknown[m.Season], m)
		}
	}

	if len(unknown) == 0 {
		r.logger.InfoContext(ctx, "all series ids cached", "total", len(members))
		return r.collect(members, result), nil
	}

	seasons := make([]string, 0, len(unknown))
	for season := range unknown {
		seasons = append(seasons, season)
	}
	sort.Strings(seasons)

	r.logger.InfoContext(ctx, "discovering series",
		"unknown_seasons", len(seasons), "total_members", len(members))

	for i, season := range seasons {
		if i > 0 {
			if err := r.sleep(ctx, r.delay); err != nil {
				return r.collect(members, result), err
			}
		}

		group := unknown[season]
		representative := group[0].MatchID

		r.logger.InfoContext(ctx, "probing series",
			"season", season, "probe_match_id", representative,
			"progress", i+1, "of", len(seasons))

		discovery, err := probe(ctx, representative)
		if err != nil {
			if ctx.Err() != nil {
				return r.collect(members, result), ctx.Err()
			}
			r.logger.WarnContext(ctx, "season discovery failed",
				"season", season, "match_id", representative, "error", err)
			continue
		}
		if discovery == nil {
			r.logger.WarnContext(ctx, "season discovery yielded nothing", "season", season)
			continue
		}

		r.store(ctx, *discovery)
		for _, m := range group {
			r.matchCache[m.MatchID] = discovery.SeriesID
		}
		r.logger.InfoContext(ctx, "season resolved",
			"season", season, "series_id", discovery.SeriesID,
			"series_name", discovery.SeriesName, "matches_mapped", len(group))
	}

	out := r.collect(members, result)
	if missing := len(members) - len(out); missing > 0 {
		r.logger.WarnContext(ctx, "some series ids not found", "missing", missing)
	}
	return out, nil
}

// store updates the in-memory caches and persists the discovery. Another
// resolver instance may already have persisted the same season; the
// repository treats that as a no-op, so persistence stays monotonic.
func (r *Resolver) store(ctx context.Context, d Discovery) {
	r.seasonCache[d.Season] = d.SeriesID

	err := r.repo.SaveIfAbsent(ctx, series.Series{
		ID:             d.SeriesID,
		Name:           d.SeriesName,
		Season:         d.Season,
		Slug:           d.Slug,
		DiscoveredFrom: d.DiscoveredFrom,
	})
	if err != nil {
		r.logger.ErrorContext(ctx, "persist discovered series failed",
			"series_id", d.SeriesID, "season", d.Season, "error", err)
	}
}

func (r *Resolver) collect(members []MatchSeason, result map[string]int64) map[string]int64 {
	for _, m := range members {
		if id, ok := r.matchCache[m.MatchID]; ok {
			result[m.MatchID] = id
		}
	}
	return result
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
