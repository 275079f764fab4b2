package ingestion

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func zipArchive(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestDownloader_DownloadDataset(t *testing.T) {
	archive := zipArchive(t, map[string]string{
		"m_1001.json": sampleMatchJSON,
		"m_1002.json": `{"info": {"teams": ["A", "B"]}, "innings": []}`,
		"README.txt":  "source notes",
		"extras.xml":  "<ignored/>",
	})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/ipl_json.zip", r.URL.Path)
		_, _ = w.Write(archive)
	}))
	defer server.Close()

	rawDir := t.TempDir()
	d := NewDownloader(DownloaderConfig{BaseURL: server.URL, RawDir: rawDir})

	extractDir, err := d.DownloadDataset(context.Background(), "ipl")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(rawDir, "ipl"), extractDir)

	names := extractedNames(t, extractDir)
	require.Equal(t, []string{"README.txt", "m_1001.json", "m_1002.json"}, names)
}

func extractedNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names
}

func TestDownloader_TransientStatusEntersBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var hits atomic.Int64
	// Cancelling from the handler lands the downloader in its backoff
	// select, so the test observes the retry path without sleeping.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		cancel()
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	d := NewDownloader(DownloaderConfig{BaseURL: server.URL, RawDir: t.TempDir(), MaxRetries: 3})
	_, err := d.DownloadDataset(ctx, "ipl")
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, int64(1), hits.Load())
}

func TestDownloader_NonRetryableStatusFailsFast(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	d := NewDownloader(DownloaderConfig{BaseURL: server.URL, RawDir: t.TempDir(), MaxRetries: 3})
	_, err := d.DownloadDataset(context.Background(), "ipl")
	require.Error(t, err)
	require.Equal(t, int64(1), hits.Load())
}

func TestDownloader_UnknownDataset(t *testing.T) {
	d := NewDownloader(DownloaderConfig{RawDir: t.TempDir()})
	_, err := d.DownloadDataset(context.Background(), "hundred")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown dataset")
}

func TestDownloader_DownloadPeople(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("identifier,name,unique_name,key_cricinfo\nabc123,A Batter,A Batter,1001\n"))
	}))
	defer server.Close()

	rawDir := t.TempDir()
	d := NewDownloader(DownloaderConfig{PeopleURL: server.URL, RawDir: rawDir})

	path, err := d.DownloadPeople(context.Background())
	require.NoError(t, err)
	require.Equal(t, filepath.Join(rawDir, "people.csv"), path)

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(body), "abc123")
}

func TestDatasets_SortedCatalog(t *testing.T) {
	all := Datasets()
	require.NotEmpty(t, all)
	for i := 1; i < len(all); i++ {
		require.Less(t, all[i-1].Key, all[i].Key)
	}

	ds, err := DatasetByKey("t20i")
	require.NoError(t, err)
	require.Equal(t, "t20s_json.zip", ds.Archive)
}
