package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/midwicket/crickstack/internal/domain/series"
	qb "github.com/midwicket/crickstack/internal/platform/querybuilder"
)

const seriesTable = "bronze_series"

type SeriesRepository struct {
	db *sqlx.DB
}

func NewSeriesRepository(db *sqlx.DB) *SeriesRepository {
	return &SeriesRepository{db: db}
}

type seriesTableModel struct {
	SeriesID       int64  `db:"series_id"`
	SeriesName     string `db:"series_name"`
	Season         string `db:"season"`
	SeriesSlug     string `db:"series_slug"`
	DiscoveredFrom string `db:"discovered_from"`
}

// LoadAll returns every discovered series. The table is created lazily by
// SaveIfAbsent, so its absence is the expected first-run condition and is
// answered with an empty slice after an explicit existence check, not by
// catching a "no such table" error.
func (r *SeriesRepository) LoadAll(ctx context.Context) ([]series.Series, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = $1`, seriesTable)
	if err != nil {
		return nil, fmt.Errorf("check series table: %w", err)
	}
	if count == 0 {
		return nil, nil
	}

	var rows []seriesTableModel
	err = r.db.SelectContext(ctx, &rows,
		`SELECT series_id, series_name, season, series_slug, discovered_from FROM `+seriesTable)
	if err != nil {
		return nil, fmt.Errorf("select series: %w", err)
	}

	out := make([]series.Series, 0, len(rows))
	for _, row := range rows {
		out = append(out, series.Series{
			ID:             row.SeriesID,
			Name:           row.SeriesName,
			Season:         row.Season,
			Slug:           row.SeriesSlug,
			DiscoveredFrom: row.DiscoveredFrom,
		})
	}
	return out, nil
}

// SaveIfAbsent persists one discovery. ON CONFLICT DO NOTHING makes the
// write monotonic: a second resolver instance racing to persist the same
// series id leaves exactly one row behind.
func (r *SeriesRepository) SaveIfAbsent(ctx context.Context, item series.Series) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx save series: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+seriesTable+` (
		series_id       INTEGER PRIMARY KEY,
		series_name     TEXT,
		season          TEXT,
		series_slug     TEXT,
		discovered_from TEXT,
		created_at      TEXT DEFAULT (datetime('now'))
	)`)
	if err != nil {
		return fmt.Errorf("ensure series table: %w", err)
	}

	query, args, err := qb.InsertModel(seriesTable, seriesTableModel{
		SeriesID:       item.ID,
		SeriesName:     item.Name,
		Season:         item.Season,
		SeriesSlug:     item.Slug,
		DiscoveredFrom: item.DiscoveredFrom,
	}, "ON CONFLICT (series_id) DO NOTHING")
	if err != nil {
		return fmt.Errorf("build series insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert series %d: %w", item.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save series tx: %w", err)
	}
	return nil
}
