package ingestion

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/midwicket/crickstack/internal/platform/logging"
	qb "github.com/midwicket/crickstack/internal/platform/querybuilder"
)

const (
	PeopleTable   = "bronze_people"
	peopleStaging = "_people_staging"
)

var peopleColumns = []string{"identifier", "name", "unique_name", "key_cricinfo"}

// PeopleLoader replaces the people registry wholesale. The CSV is loaded
// into a staging table and validated before the swap, so a malformed or
// empty download leaves the previous registry intact.
type PeopleLoader struct {
	db     *sqlx.DB
	logger *logging.Logger
}

func NewPeopleLoader(db *sqlx.DB, logger *logging.Logger) *PeopleLoader {
	if logger == nil {
		logger = logging.Default()
	}
	return &PeopleLoader{db: db, logger: logger}
}

// Load reads people.csv and swaps it in as the new registry. Returns the
// number of rows loaded.
func (p *PeopleLoader) Load(ctx context.Context, csvPath string) (int, error) {
	rows, err := readPeopleCSV(csvPath)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, fmt.Errorf("people csv %s has no rows, refusing to swap", csvPath)
	}

	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin people swap tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS `+peopleStaging); err != nil {
		return 0, fmt.Errorf("drop stale staging table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `CREATE TABLE `+peopleStaging+` (
		identifier   TEXT NOT NULL,
		name         TEXT,
		unique_name  TEXT,
		key_cricinfo TEXT
	)`); err != nil {
		return 0, fmt.Errorf("create staging table: %w", err)
	}

	if err := insertPeopleRows(ctx, tx, rows); err != nil {
		return 0, err
	}

	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS `+PeopleTable); err != nil {
		return 0, fmt.Errorf("drop old people table: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`ALTER TABLE `+peopleStaging+` RENAME TO `+PeopleTable); err != nil {
		return 0, fmt.Errorf("swap staging table: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit people swap tx: %w", err)
	}

	p.logger.InfoContext(ctx, "people registry loaded", "count", len(rows))
	return len(rows), nil
}

// insertPeopleRows stages rows in chunks small enough to stay under the
// statement bind-variable ceiling.
func insertPeopleRows(ctx context.Context, tx *sqlx.Tx, rows [][]any) error {
	const chunkRows = 200

	for start := 0; start < len(rows); start += chunkRows {
		end := start + chunkRows
		if end > len(rows) {
			end = len(rows)
		}

		builder := qb.InsertInto(peopleStaging).Columns(peopleColumns...)
		for _, row := range rows[start:end] {
			builder = builder.Values(row...)
		}
		query, args, err := builder.ToSQL()
		if err != nil {
			return fmt.Errorf("build staging insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("stage people rows: %w", err)
		}
	}
	return nil
}

func readPeopleCSV(csvPath string) ([][]any, error) {
	f, err := os.Open(csvPath)
	if err != nil {
		return nil, fmt.Errorf("open people csv: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read people csv header: %w", err)
	}

	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		colIdx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := colIdx["identifier"]; !ok {
		return nil, fmt.Errorf("people csv missing identifier column, refusing to swap")
	}

	var rows [][]any
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read people csv: %w", err)
		}

		row := make([]any, len(peopleColumns))
		for i, col := range peopleColumns {
			idx, ok := colIdx[col]
			if !ok || idx >= len(record) || record[idx] == "" {
				row[i] = nil
				continue
			}
			row[i] = record[idx]
		}
		if row[0] == nil {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}
