package bronze

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/midwicket/crickstack/internal/platform/logging"
)

// Store is the bronze-layer delta writer. One Store per database handle;
// the handle is caller-owned and injected, so tests run against :memory:.
//
// Dedup strategy: the batch is staged into a session-temporary table and
// merged with an anti-join (insert rows whose identifier is not already in
// the target). Existing identifiers are never materialized into process
// memory, which keeps appends flat at bronze scale (millions of rows).
type Store struct {
	db     *sqlx.DB
	logger *logging.Logger
}

func NewStore(db *sqlx.DB, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{db: db, logger: logger}
}

// stageChunkRows keeps each staging INSERT under SQLite's bind-variable
// ceiling for the widest bronze schemas.
const stageVariableBudget = 900

// TableExists reports whether a table is present. An absent table is an
// expected first-run condition, not an error worth catching.
func (s *Store) TableExists(ctx context.Context, table string) (bool, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = $1`, table)
	if err != nil {
		return false, fmt.Errorf("%w: check table %s: %v", ErrStorageUnavailable, table, err)
	}
	return count > 0, nil
}

// DropTable removes a bronze table. Destructive refresh is caller policy;
// Append never drops anything itself.
func (s *Store) DropTable(ctx context.Context, table string) error {
	if _, err := s.db.ExecContext(ctx, `DROP TABLE IF EXISTS `+quoteIdent(table)); err != nil {
		return fmt.Errorf("%w: drop table %s: %v", ErrStorageUnavailable, table, err)
	}
	return nil
}

// AppendRequest is one table's share of a grouped append.
type AppendRequest struct {
	Table    string
	Batch    *Batch
	IDColumn string
}

// Append merges batch into table without introducing duplicate identifiers.
//
// Missing table: created from the batch schema, all rows inserted. Existing
// table: only rows whose idColumn value is absent are inserted. The staging,
// anti-join insert and count run inside one transaction; a failure anywhere
// leaves the table at its pre-image. Returns the number of rows actually
// inserted, never more than batch.Len().
func (s *Store) Append(ctx context.Context, table string, batch *Batch, idColumn string) (int64, error) {
	counts, err := s.AppendAll(ctx, AppendRequest{Table: table, Batch: batch, IDColumn: idColumn})
	if err != nil {
		return 0, err
	}
	return counts[0], nil
}

// AppendAll applies several appends in one transaction: either every table
// receives its delta or none does. Ingestion relies on this to keep a match
// row and its delivery rows from landing independently.
func (s *Store) AppendAll(ctx context.Context, reqs ...AppendRequest) ([]int64, error) {
	if len(reqs) == 0 {
		return nil, nil
	}
	for _, req := range reqs {
		if req.Batch == nil {
			return nil, fmt.Errorf("%w: nil batch for table %s", ErrInvalidBatch, req.Table)
		}
		if req.Batch.Schema().ColumnIndex(req.IDColumn) < 0 {
			return nil, fmt.Errorf("%w: identifier column %q not in batch schema for table %s",
				ErrSchemaMismatch, req.IDColumn, req.Table)
		}
	}

	counts := make([]int64, len(reqs))
	total := 0
	for _, req := range reqs {
		total += req.Batch.Len()
	}
	if total == 0 {
		return counts, nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: begin append tx: %v", ErrStorageUnavailable, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for i, req := range reqs {
		if req.Batch.Len() == 0 {
			continue
		}
		counts[i], err = appendOne(ctx, tx, req, i)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit append tx: %v", ErrStorageUnavailable, err)
	}

	for i, req := range reqs {
		s.logger.InfoContext(ctx, "bronze append complete",
			"table", req.Table, "batch_rows", req.Batch.Len(), "new_rows", counts[i])
	}
	return counts, nil
}

func appendOne(ctx context.Context, tx *sqlx.Tx, req AppendRequest, stageIdx int) (int64, error) {
	exists, err := tableExistsTx(ctx, tx, req.Table)
	if err != nil {
		return 0, err
	}

	if !exists {
		if err := createTable(ctx, tx, req.Table, req.Batch.Schema()); err != nil {
			return 0, err
		}
		if err := insertRows(ctx, tx, quoteIdent(req.Table), req.Batch); err != nil {
			return 0, err
		}
		return int64(req.Batch.Len()), nil
	}

	if err := checkSchemaCompatible(ctx, tx, req.Table, req.Batch.Schema()); err != nil {
		return 0, err
	}
	return antiJoinInsert(ctx, tx, req.Table, req.Batch, req.IDColumn, stageIdx)
}

func tableExistsTx(ctx context.Context, tx *sqlx.Tx, table string) (bool, error) {
	var count int
	err := tx.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = $1`, table)
	if err != nil {
		return false, fmt.Errorf("%w: check table %s: %v", ErrStorageUnavailable, table, err)
	}
	return count > 0, nil
}

func createTable(ctx context.Context, tx *sqlx.Tx, table string, schema Schema) error {
	cols := make([]string, len(schema))
	for i, f := range schema {
		cols[i] = quoteIdent(f.Name) + " " + string(f.Type)
	}
	ddl := "CREATE TABLE " + quoteIdent(table) + " (" + strings.Join(cols, ", ") + ")"
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("%w: create table %s: %v", ErrStorageUnavailable, table, err)
	}
	return nil
}

type tableColumn struct {
	Name string `db:"name"`
	Type string `db:"type"`
}

func checkSchemaCompatible(ctx context.Context, tx *sqlx.Tx, table string, schema Schema) error {
	var existing []tableColumn
	err := tx.SelectContext(ctx, &existing,
		`SELECT name, type FROM pragma_table_info($1)`, table)
	if err != nil {
		return fmt.Errorf("%w: read columns of %s: %v", ErrStorageUnavailable, table, err)
	}

	existingType := make(map[string]string, len(existing))
	for _, col := range existing {
		existingType[strings.ToLower(col.Name)] = strings.ToUpper(strings.TrimSpace(col.Type))
	}

	if len(existing) != len(schema) {
		return fmt.Errorf("%w: table %s has %d columns, batch has %d",
			ErrSchemaMismatch, table, len(existing), len(schema))
	}
	for _, f := range schema {
		declared, ok := existingType[strings.ToLower(f.Name)]
		if !ok {
			return fmt.Errorf("%w: table %s has no column %q", ErrSchemaMismatch, table, f.Name)
		}
		if declared != string(f.Type) {
			return fmt.Errorf("%w: column %q is %s in table %s, batch declares %s",
				ErrSchemaMismatch, f.Name, declared, table, f.Type)
		}
	}
	return nil
}

func antiJoinInsert(ctx context.Context, tx *sqlx.Tx, table string, batch *Batch, idColumn string, stageIdx int) (int64, error) {
	stage := fmt.Sprintf("_bronze_append_stage_%d", stageIdx)

	cols := make([]string, len(batch.Schema()))
	for i, f := range batch.Schema() {
		cols[i] = quoteIdent(f.Name) + " " + string(f.Type)
	}
	if _, err := tx.ExecContext(ctx,
		"CREATE TEMP TABLE "+stage+" ("+strings.Join(cols, ", ")+")"); err != nil {
		return 0, fmt.Errorf("%w: create staging table for %s: %v", ErrStorageUnavailable, table, err)
	}
	defer func() {
		_, _ = tx.ExecContext(ctx, "DROP TABLE IF EXISTS temp."+stage)
	}()

	if err := insertRows(ctx, tx, "temp."+stage, batch); err != nil {
		return 0, err
	}

	columnList := quotedColumnList(batch.Schema())
	res, err := tx.ExecContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (%s)
		 SELECT %s FROM temp.%s
		 WHERE %s NOT IN (SELECT %s FROM %s)`,
		quoteIdent(table), columnList,
		columnList, stage,
		quoteIdent(idColumn), quoteIdent(idColumn), quoteIdent(table)))
	if err != nil {
		return 0, fmt.Errorf("%w: merge staged rows into %s: %v", ErrStorageUnavailable, table, err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: count merged rows for %s: %v", ErrStorageUnavailable, table, err)
	}
	return inserted, nil
}

func insertRows(ctx context.Context, tx *sqlx.Tx, target string, batch *Batch) error {
	width := len(batch.Schema())
	chunkRows := stageVariableBudget / width
	if chunkRows < 1 {
		chunkRows = 1
	}

	columnList := quotedColumnList(batch.Schema())
	rowPlaceholder := "(" + strings.TrimRight(strings.Repeat("?, ", width), ", ") + ")"

	rows := batch.Rows()
	for start := 0; start < len(rows); start += chunkRows {
		end := start + chunkRows
		if end > len(rows) {
			end = len(rows)
		}
		chunk := rows[start:end]

		placeholders := make([]string, len(chunk))
		args := make([]any, 0, len(chunk)*width)
		for i, row := range chunk {
			placeholders[i] = rowPlaceholder
			args = append(args, row...)
		}

		query := "INSERT INTO " + target + " (" + columnList + ") VALUES " + strings.Join(placeholders, ", ")
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: stage rows into %s: %v", ErrStorageUnavailable, target, err)
		}
	}
	return nil
}

func quotedColumnList(schema Schema) string {
	names := make([]string, len(schema))
	for i, f := range schema {
		names[i] = quoteIdent(f.Name)
	}
	return strings.Join(names, ", ")
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
