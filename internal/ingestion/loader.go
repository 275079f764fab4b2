package ingestion

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/midwicket/crickstack/internal/bronze"
	"github.com/midwicket/crickstack/internal/platform/logging"
)

const (
	MatchesTable    = "bronze_matches"
	DeliveriesTable = "bronze_deliveries"

	defaultBatchSize    = 1000
	defaultParseWorkers = 8
)

type LoaderConfig struct {
	Store        *bronze.Store
	BatchSize    int
	ParseWorkers int
	Logger       *logging.Logger
}

// Loader walks a directory of Cricsheet JSON files and appends the delta
// into the bronze match and delivery tables. Files are processed in fixed
// size batches to bound memory; each batch lands atomically.
type Loader struct {
	store        *bronze.Store
	batchSize    int
	parseWorkers int
	logger       *logging.Logger
}

func NewLoader(cfg LoaderConfig) *Loader {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	parseWorkers := cfg.ParseWorkers
	if parseWorkers <= 0 {
		parseWorkers = defaultParseWorkers
	}
	return &Loader{
		store:        cfg.Store,
		batchSize:    batchSize,
		parseWorkers: parseWorkers,
		logger:       logger,
	}
}

// LoadResult summarizes one loader run.
type LoadResult struct {
	NewMatches  int64
	FailedFiles []string
}

// LoadMatches ingests every *.json under matchesDir. Re-running over the
// same directory only picks up matches not yet in bronze; fullRefresh
// drops both tables first.
func (l *Loader) LoadMatches(ctx context.Context, matchesDir string, fullRefresh bool) (LoadResult, error) {
	files, err := listMatchFiles(matchesDir)
	if err != nil {
		return LoadResult{}, err
	}
	l.logger.InfoContext(ctx, "scanning json files", "dir", matchesDir, "file_count", len(files))

	if fullRefresh {
		if err := l.store.DropTable(ctx, MatchesTable); err != nil {
			return LoadResult{}, err
		}
		if err := l.store.DropTable(ctx, DeliveriesTable); err != nil {
			return LoadResult{}, err
		}
	}

	if len(files) == 0 {
		l.logger.InfoContext(ctx, "no json files found", "dir", matchesDir)
		return LoadResult{}, nil
	}

	pool, err := ants.NewPool(l.parseWorkers)
	if err != nil {
		return LoadResult{}, fmt.Errorf("create parse pool: %w", err)
	}
	defer pool.Release()

	result := LoadResult{}
	numBatches := (len(files) + l.batchSize - 1) / l.batchSize

	for batchIdx := 0; batchIdx < numBatches; batchIdx++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		start := batchIdx * l.batchSize
		end := start + l.batchSize
		if end > len(files) {
			end = len(files)
		}

		parsed, failed := l.parseBatch(ctx, pool, files[start:end])
		result.FailedFiles = append(result.FailedFiles, failed...)
		if len(parsed) == 0 {
			continue
		}

		newMatches, err := l.appendBatch(ctx, parsed)
		if err != nil {
			return result, err
		}
		result.NewMatches += newMatches

		if numBatches > 1 {
			l.logger.InfoContext(ctx, "batch complete",
				"batch", batchIdx+1, "of", numBatches, "new_matches", newMatches)
		}
	}

	l.logger.InfoContext(ctx, "bronze load complete",
		"new_matches", result.NewMatches, "failed_files", len(result.FailedFiles))
	if len(result.FailedFiles) > 0 {
		l.logger.WarnContext(ctx, "some files failed to parse", "files", result.FailedFiles)
	}
	return result, nil
}

// parseBatch decodes one batch of files on the worker pool. Output keeps
// the input file order so loads stay deterministic.
func (l *Loader) parseBatch(ctx context.Context, pool *ants.Pool, files []string) ([]ParsedMatch, []string) {
	parsed := make([]*ParsedMatch, len(files))
	parseErrs := make([]error, len(files))

	var wg sync.WaitGroup
	for i, file := range files {
		i, file := i, file
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			data, err := os.ReadFile(file)
			if err != nil {
				parseErrs[i] = err
				return
			}
			p, err := ParseMatchFile(matchIDFromPath(file), data)
			if err != nil {
				parseErrs[i] = err
				return
			}
			parsed[i] = &p
		}); err != nil {
			wg.Done()
			parseErrs[i] = fmt.Errorf("submit parse task: %w", err)
		}
	}
	wg.Wait()

	out := make([]ParsedMatch, 0, len(files))
	var failed []string
	for i, file := range files {
		if parseErrs[i] != nil {
			failed = append(failed, filepath.Base(file))
			l.logger.WarnContext(ctx, "parse failed",
				"file", filepath.Base(file), "error", parseErrs[i])
			continue
		}
		out = append(out, *parsed[i])
	}
	return out, failed
}

func (l *Loader) appendBatch(ctx context.Context, parsed []ParsedMatch) (int64, error) {
	matchBatch, err := bronze.NewBatch(MatchesSchema)
	if err != nil {
		return 0, err
	}
	deliveryBatch, err := bronze.NewBatch(DeliveriesSchema)
	if err != nil {
		return 0, err
	}

	for _, p := range parsed {
		if err := matchBatch.Append(p.MatchRow...); err != nil {
			return 0, err
		}
		for _, row := range p.DeliveryRows {
			if err := deliveryBatch.Append(row...); err != nil {
				return 0, err
			}
		}
	}

	counts, err := l.store.AppendAll(ctx,
		bronze.AppendRequest{Table: MatchesTable, Batch: matchBatch, IDColumn: "match_id"},
		bronze.AppendRequest{Table: DeliveriesTable, Batch: deliveryBatch, IDColumn: "match_id"},
	)
	if err != nil {
		return 0, err
	}
	return counts[0], nil
}

func listMatchFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read matches dir %s: %w", dir, err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func matchIDFromPath(file string) string {
	return strings.TrimSuffix(filepath.Base(file), ".json")
}
