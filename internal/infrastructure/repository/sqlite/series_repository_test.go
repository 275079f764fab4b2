package sqlite

import (
	"context"
	"testing"

	"github.com/midwicket/crickstack/internal/domain/series"
)

func TestSeriesRepository_LoadAllBeforeFirstSave(t *testing.T) {
	handle, err := OpenMemory()
	if err != nil {
		t.Fatalf("open memory db: %v", err)
	}
	t.Cleanup(func() { _ = handle.Close() })

	repo := NewSeriesRepository(handle)

	got, err := repo.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("load all on empty db: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty bootstrap, got %d rows", len(got))
	}
}

func TestSeriesRepository_SaveIfAbsentIsMonotonic(t *testing.T) {
	handle, err := OpenMemory()
	if err != nil {
		t.Fatalf("open memory db: %v", err)
	}
	t.Cleanup(func() { _ = handle.Close() })

	repo := NewSeriesRepository(handle)
	ctx := context.Background()

	first := series.Series{
		ID:             1410320,
		Name:           "Indian Premier League 2024",
		Season:         "2024",
		Slug:           "indian-premier-league-2024",
		DiscoveredFrom: "m_1001",
	}
	if err := repo.SaveIfAbsent(ctx, first); err != nil {
		t.Fatalf("save first: %v", err)
	}

	// Same id from a different probe must not overwrite the original row.
	rediscovered := first
	rediscovered.DiscoveredFrom = "m_2002"
	if err := repo.SaveIfAbsent(ctx, rediscovered); err != nil {
		t.Fatalf("save duplicate: %v", err)
	}

	if err := repo.SaveIfAbsent(ctx, series.Series{
		ID:             1345678,
		Name:           "Big Bash League 2023",
		Season:         "2023",
		Slug:           "big-bash-league-2023",
		DiscoveredFrom: "m_3003",
	}); err != nil {
		t.Fatalf("save second series: %v", err)
	}

	got, err := repo.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load all: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 series, got %d", len(got))
	}

	byID := make(map[int64]series.Series, len(got))
	for _, s := range got {
		byID[s.ID] = s
	}
	if byID[1410320].DiscoveredFrom != "m_1001" {
		t.Fatalf("first discovery was overwritten: %+v", byID[1410320])
	}
	if byID[1345678].Season != "2023" {
		t.Fatalf("unexpected second series: %+v", byID[1345678])
	}
}
