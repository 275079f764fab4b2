package espn

import (
	"context"
	"fmt"
	"testing"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"

	"github.com/midwicket/crickstack/internal/platform/resilience"
)

const sampleNextData = `{
  "props": {
    "appPageProps": {
      "data": {
        "data": {
          "match": {
            "objectId": 1422119,
            "season": "2024",
            "title": "Final",
            "slug": "knights-vs-royals-final",
            "statusText": "Knights won by 12 runs",
            "floodlit": "night",
            "startDate": "2024-05-26T14:00:00.000Z",
            "startTime": "14:00",
            "series": {"objectId": 1410320, "name": "Premier League 2024", "slug": "premier-league-2024"}
          },
          "content": {
            "matchPlayers": {
              "teamPlayers": [
                {
                  "team": {"objectId": 335974, "name": "Knights", "longName": "City Knights"},
                  "players": [
                    {"player": {"objectId": 1, "name": "A Batter", "longName": "Alpha Batter"}, "playerRoleType": "C"},
                    {"player": {"objectId": 2, "name": "B Keeper", "longName": "Bravo Keeper"}, "playerRoleType": "WK"},
                    {"player": {"objectId": 3, "name": "D Allround", "longName": "Delta Allround"}}
                  ]
                },
                {
                  "team": {"objectId": 335975, "name": "Royals", "longName": "Coastal Royals"},
                  "players": [
                    {"player": {"objectId": 4, "name": "E Skip", "longName": "Echo Skip"}, "playerRoleType": "CWK"}
                  ]
                }
              ]
            }
          }
        }
      }
    }
  }
}`

func samplePage(nextData string) string {
	return `<html><head><script id="__NEXT_DATA__" type="application/json">` +
		nextData + `</script></head><body></body></html>`
}

func newStubClient(t *testing.T, fetch func(ctx context.Context, url string) (string, error)) *Client {
	t.Helper()
	c := NewClient(ClientConfig{
		MaxRetries:     0,
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	})
	c.fetchHTML = fetch
	return c
}

func TestClient_DiscoverSeries(t *testing.T) {
	var gotURL string
	c := newStubClient(t, func(_ context.Context, url string) (string, error) {
		gotURL = url
		return samplePage(sampleNextData), nil
	})

	discovery, err := c.DiscoverSeries(context.Background(), "1422119")
	require.NoError(t, err)
	require.NotNil(t, discovery)
	require.Equal(t, "https://www.espncricinfo.com/ci/engine/match/1422119.html", gotURL)
	require.Equal(t, int64(1410320), discovery.SeriesID)
	require.Equal(t, "Premier League 2024", discovery.SeriesName)
	require.Equal(t, "2024", discovery.Season)
	require.Equal(t, "premier-league-2024", discovery.Slug)
	require.Equal(t, "1422119", discovery.DiscoveredFrom)
}

func TestClient_DiscoverSeriesWithoutSeriesInfo(t *testing.T) {
	c := newStubClient(t, func(_ context.Context, _ string) (string, error) {
		return samplePage(`{"props": {"appPageProps": {"data": {}}}}`), nil
	})

	discovery, err := c.DiscoverSeries(context.Background(), "404404")
	require.NoError(t, err)
	require.Nil(t, discovery)
}

func TestClient_ScrapeMatch(t *testing.T) {
	var gotURL string
	c := newStubClient(t, func(_ context.Context, url string) (string, error) {
		gotURL = url
		return samplePage(sampleNextData), nil
	})

	item, err := c.ScrapeMatch(context.Background(), "1422119", 1410320)
	require.NoError(t, err)
	require.Equal(t, "https://www.espncricinfo.com/series/x-1410320/x-1422119/full-scorecard", gotURL)

	require.Equal(t, "1422119", item.CricsheetMatchID)
	require.Equal(t, int64(1422119), item.ESPNMatchID)
	require.Equal(t, int64(1410320), item.ESPNSeriesID)
	require.Equal(t, "night", item.Floodlit)
	require.Equal(t, "Knights won by 12 runs", item.StatusText)

	require.Equal(t, "Knights", item.Team1Name)
	require.Equal(t, "A Batter", item.Team1Captain)
	require.Equal(t, "B Keeper", item.Team1Keeper)
	require.Equal(t, "Royals", item.Team2Name)
	require.Equal(t, "E Skip", item.Team2Captain)
	require.Equal(t, "E Skip", item.Team2Keeper)

	require.Contains(t, item.TeamsJSON, `"role":"captain_wicketkeeper"`)
	require.Contains(t, item.TeamsJSON, `"player_long_name":"Delta Allround"`)
}

func TestClient_MissingNextDataFails(t *testing.T) {
	c := newStubClient(t, func(_ context.Context, _ string) (string, error) {
		return "<html><body>blocked</body></html>", nil
	})

	_, err := c.ScrapeMatch(context.Background(), "1", 2)
	require.Error(t, err)
	require.Contains(t, err.Error(), "__NEXT_DATA__")
}

func TestClient_RetriesOnlyTransientFailures(t *testing.T) {
	attempts := 0
	c := newStubClient(t, func(_ context.Context, _ string) (string, error) {
		attempts++
		return "", fmt.Errorf("tab crashed: %w", errESPNTransient)
	})
	c.maxRetries = 2
	c.retryBackoff = time.Millisecond

	// Transient failures exhaust every attempt.
	_, err := c.DiscoverSeries(context.Background(), "9")
	require.Error(t, err)
	require.Equal(t, 3, attempts)

	attempts = 0
	c.fetchHTML = func(_ context.Context, _ string) (string, error) {
		attempts++
		return "", crerr.New("hard failure")
	}
	_, err = c.DiscoverSeries(context.Background(), "9")
	require.Error(t, err)
	require.Equal(t, 1, attempts)
}

func TestClient_CircuitOpensAfterFailures(t *testing.T) {
	c := NewClient(ClientConfig{
		MaxRetries: 0,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})
	fetches := 0
	c.fetchHTML = func(_ context.Context, _ string) (string, error) {
		fetches++
		return "", fmt.Errorf("tab crashed: %w", errESPNTransient)
	}

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		_, err := c.DiscoverSeries(ctx, "9")
		require.Error(t, err)
	}
	require.Equal(t, 2, fetches)

	_, err := c.DiscoverSeries(ctx, "9")
	require.Error(t, err)
	require.Contains(t, err.Error(), "temporarily unavailable")
	require.Equal(t, 2, fetches)
}
