package ingestion

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/midwicket/crickstack/internal/platform/logging"
)

var errDownloadTransient = crerr.New("cricsheet transient failure")

type DownloaderConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	PeopleURL  string
	RawDir     string
	MaxRetries int
	Logger     *logging.Logger
}

// Downloader fetches Cricsheet archives and the people registry into the
// raw data directory.
type Downloader struct {
	httpClient *http.Client
	baseURL    string
	peopleURL  string
	rawDir     string
	maxRetries int
	logger     *logging.Logger
}

func NewDownloader(cfg DownloaderConfig) *Downloader {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 2 * time.Minute}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://cricsheet.org/downloads"
	}
	peopleURL := strings.TrimSpace(cfg.PeopleURL)
	if peopleURL == "" {
		peopleURL = "https://cricsheet.org/register/people.csv"
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Downloader{
		httpClient: httpClient,
		baseURL:    baseURL,
		peopleURL:  peopleURL,
		rawDir:     cfg.RawDir,
		maxRetries: maxRetries,
		logger:     logger,
	}
}

// DownloadDataset fetches a dataset archive and extracts its JSON files.
// Returns the directory holding the extracted files.
func (d *Downloader) DownloadDataset(ctx context.Context, key string) (string, error) {
	ds, err := DatasetByKey(key)
	if err != nil {
		return "", err
	}

	zipPath := filepath.Join(d.rawDir, ds.Key+"_json.zip")
	extractDir := filepath.Join(d.rawDir, ds.Key)

	url := d.baseURL + "/" + ds.Archive
	if err := d.downloadFile(ctx, url, zipPath); err != nil {
		return "", fmt.Errorf("download dataset %s: %w", ds.Key, err)
	}

	count, err := extractZip(zipPath, extractDir)
	if err != nil {
		return "", fmt.Errorf("extract dataset %s: %w", ds.Key, err)
	}

	d.logger.InfoContext(ctx, "dataset extracted",
		"dataset", ds.Key, "dir", extractDir, "json_files", count)
	return extractDir, nil
}

// DownloadPeople fetches the Cricsheet people registry CSV. Returns the
// local file path.
func (d *Downloader) DownloadPeople(ctx context.Context) (string, error) {
	dest := filepath.Join(d.rawDir, "people.csv")
	if err := d.downloadFile(ctx, d.peopleURL, dest); err != nil {
		return "", fmt.Errorf("download people registry: %w", err)
	}
	return dest, nil
}

func (d *Downloader) downloadFile(ctx context.Context, url, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("ensure download dir: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= d.maxRetries; attempt++ {
		size, err := d.fetchToFile(ctx, url, dest)
		if err == nil {
			d.logger.InfoContext(ctx, "download complete",
				"url", url, "dest", dest, "size_bytes", size)
			return nil
		}
		lastErr = err
		if !crerr.Is(err, errDownloadTransient) {
			return err
		}

		if attempt == d.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * 5 * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	d.logger.WarnContext(ctx, "download failed", "url", url, "error", lastErr)
	return lastErr
}

func (d *Downloader) fetchToFile(ctx context.Context, url, dest string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: send request: %v", errDownloadTransient, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		if isRetryableStatus(resp.StatusCode) {
			return 0, fmt.Errorf("%w: status=%d for %s", errDownloadTransient, resp.StatusCode, url)
		}
		return 0, fmt.Errorf("status=%d for %s", resp.StatusCode, url)
	}

	out, err := os.Create(dest)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", dest, err)
	}

	// Pooled copy buffer: archives run to hundreds of megabytes and
	// downloads may repeat across datasets in one run.
	buf := bytebufferpool.Get()
	if cap(buf.B) < 64<<10 {
		buf.B = make([]byte, 64<<10)
	}
	buf.B = buf.B[:cap(buf.B)]
	size, copyErr := io.CopyBuffer(out, resp.Body, buf.B)
	bytebufferpool.Put(buf)

	if closeErr := out.Close(); copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		_ = os.Remove(dest)
		return 0, fmt.Errorf("%w: write %s: %v", errDownloadTransient, dest, copyErr)
	}
	return size, nil
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func extractZip(zipPath, extractDir string) (int, error) {
	if err := os.MkdirAll(extractDir, 0o755); err != nil {
		return 0, fmt.Errorf("ensure extract dir: %w", err)
	}

	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return 0, fmt.Errorf("open archive %s: %w", zipPath, err)
	}
	defer func() {
		_ = reader.Close()
	}()

	count := 0
	for _, entry := range reader.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		name := filepath.Base(entry.Name)
		if !strings.HasSuffix(name, ".json") && !strings.HasSuffix(name, ".txt") {
			continue
		}

		src, err := entry.Open()
		if err != nil {
			return count, fmt.Errorf("open archive entry %s: %w", entry.Name, err)
		}

		destPath := filepath.Join(extractDir, name)
		dst, err := os.Create(destPath)
		if err != nil {
			_ = src.Close()
			return count, fmt.Errorf("create %s: %w", destPath, err)
		}

		_, copyErr := io.Copy(dst, src)
		_ = src.Close()
		if closeErr := dst.Close(); copyErr == nil {
			copyErr = closeErr
		}
		if copyErr != nil {
			return count, fmt.Errorf("extract %s: %w", entry.Name, copyErr)
		}

		if strings.HasSuffix(name, ".json") {
			count++
		}
	}
	return count, nil
}
