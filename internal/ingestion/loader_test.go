package ingestion

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/midwicket/crickstack/internal/bronze"
)

func newIngestionDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func writeMatchFile(t *testing.T, dir, matchID, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, matchID+".json"), []byte(body), 0o644))
}

func secondMatchJSON() string {
	doc := strings.ReplaceAll(sampleMatchJSON, "Eden Gardens", "Wankhede Stadium")
	return strings.ReplaceAll(doc, "2024-03-22", "2024-03-29")
}

func countRows(t *testing.T, db *sqlx.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.Get(&n, "SELECT COUNT(*) FROM "+table))
	return n
}

func TestLoader_LoadMatchesDelta(t *testing.T) {
	ctx := context.Background()
	db := newIngestionDB(t)
	store := bronze.NewStore(db, nil)

	dir := t.TempDir()
	writeMatchFile(t, dir, "m_1001", sampleMatchJSON)

	loader := NewLoader(LoaderConfig{Store: store})
	result, err := loader.LoadMatches(ctx, dir, false)
	require.NoError(t, err)
	require.Equal(t, int64(1), result.NewMatches)
	require.Empty(t, result.FailedFiles)
	require.Equal(t, 1, countRows(t, db, MatchesTable))
	require.Equal(t, 4, countRows(t, db, DeliveriesTable))

	// Same directory again: nothing new.
	result, err = loader.LoadMatches(ctx, dir, false)
	require.NoError(t, err)
	require.Zero(t, result.NewMatches)
	require.Equal(t, 1, countRows(t, db, MatchesTable))
	require.Equal(t, 4, countRows(t, db, DeliveriesTable))

	// A second file lands as a delta alongside the known one.
	writeMatchFile(t, dir, "m_1002", secondMatchJSON())
	result, err = loader.LoadMatches(ctx, dir, false)
	require.NoError(t, err)
	require.Equal(t, int64(1), result.NewMatches)
	require.Equal(t, 2, countRows(t, db, MatchesTable))
	require.Equal(t, 8, countRows(t, db, DeliveriesTable))

	var venues []string
	require.NoError(t, db.Select(&venues,
		"SELECT venue FROM bronze_matches ORDER BY match_id"))
	require.Equal(t, []string{"Eden Gardens", "Wankhede Stadium"}, venues)
}

func TestLoader_FullRefreshRebuilds(t *testing.T) {
	ctx := context.Background()
	db := newIngestionDB(t)
	store := bronze.NewStore(db, nil)

	dir := t.TempDir()
	writeMatchFile(t, dir, "m_1001", sampleMatchJSON)
	writeMatchFile(t, dir, "m_1002", secondMatchJSON())

	loader := NewLoader(LoaderConfig{Store: store})
	_, err := loader.LoadMatches(ctx, dir, false)
	require.NoError(t, err)
	require.Equal(t, 2, countRows(t, db, MatchesTable))

	result, err := loader.LoadMatches(ctx, dir, true)
	require.NoError(t, err)
	require.Equal(t, int64(2), result.NewMatches)
	require.Equal(t, 2, countRows(t, db, MatchesTable))
	require.Equal(t, 8, countRows(t, db, DeliveriesTable))
}

func TestLoader_BadFileIsReportedNotFatal(t *testing.T) {
	ctx := context.Background()
	db := newIngestionDB(t)
	store := bronze.NewStore(db, nil)

	dir := t.TempDir()
	writeMatchFile(t, dir, "m_1001", sampleMatchJSON)
	writeMatchFile(t, dir, "m_broken", `{"info": {`)

	loader := NewLoader(LoaderConfig{Store: store})
	result, err := loader.LoadMatches(ctx, dir, false)
	require.NoError(t, err)
	require.Equal(t, int64(1), result.NewMatches)
	require.Equal(t, []string{"m_broken.json"}, result.FailedFiles)
}

func TestLoader_SmallBatchesStayDeterministic(t *testing.T) {
	ctx := context.Background()
	db := newIngestionDB(t)
	store := bronze.NewStore(db, nil)

	dir := t.TempDir()
	writeMatchFile(t, dir, "m_1001", sampleMatchJSON)
	writeMatchFile(t, dir, "m_1002", secondMatchJSON())

	loader := NewLoader(LoaderConfig{Store: store, BatchSize: 1, ParseWorkers: 2})
	result, err := loader.LoadMatches(ctx, dir, false)
	require.NoError(t, err)
	require.Equal(t, int64(2), result.NewMatches)
	require.Equal(t, 2, countRows(t, db, MatchesTable))
}

func TestLoader_EmptyDirIsNoOp(t *testing.T) {
	ctx := context.Background()
	db := newIngestionDB(t)
	store := bronze.NewStore(db, nil)

	loader := NewLoader(LoaderConfig{Store: store})
	result, err := loader.LoadMatches(ctx, t.TempDir(), false)
	require.NoError(t, err)
	require.Zero(t, result.NewMatches)
	require.Empty(t, result.FailedFiles)
}

func TestLoader_MissingDirFails(t *testing.T) {
	store := bronze.NewStore(newIngestionDB(t), nil)
	loader := NewLoader(LoaderConfig{Store: store})
	_, err := loader.LoadMatches(context.Background(), "/nonexistent/matches", false)
	require.Error(t, err)
}
