package binary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Downloader streams HTTP responses to disk.
type Downloader struct {
	client    *http.Client
	userAgent string
}

// NewDownloader creates a new downloader. A nil client gets NewHTTPClient().
func NewDownloader(client *http.Client) *Downloader {
	if client == nil {
		client = NewHTTPClient()
	}
	return &Downloader{
		client:    client,
		userAgent: DefaultUserAgent,
	}
}

// DownloadOptions tunes a single download.
type DownloadOptions struct {
	// Progress is called per chunk when the total size is known.
	Progress ProgressFunc
	// Verify runs against the fully written temp file before it is moved
	// into place. A non-nil error aborts the download.
	Verify func(path string) (VerificationMethod, error)
}

// DownloadToFile downloads url to destPath.
//
// The body is streamed into a uniquely named temp file next to destPath,
// marked executable and renamed into place, so destPath is either absent or
// complete. The temp file is removed on any failure.
func (d *Downloader) DownloadToFile(ctx context.Context, url, destPath string, opts DownloadOptions) (*DownloadResult, error) {
	start := time.Now()

	progress := opts.Progress
	if progress == nil {
		progress = noProgress
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", ErrDownload, err)
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDownload, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s: unexpected status code: %d", ErrDownload, url, resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return nil, fmt.Errorf("%w: create dest dir: %w", ErrFileSystem, err)
	}

	tmpPath := destPath + "." + uuid.NewString() + ".tmp"
	tmpFile, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: create temp file: %w", ErrFileSystem, err)
	}

	cleanupNeeded := true
	defer func() {
		tmpFile.Close()
		if cleanupNeeded {
			os.Remove(tmpPath)
		}
	}()

	body := io.Reader(resp.Body)
	if total := resp.ContentLength; total > 0 {
		body = &progressReader{r: resp.Body, total: total, fn: progress}
	}

	written, err := copyBody(tmpFile, body)
	if err != nil {
		return nil, err
	}
	if written == 0 {
		return nil, fmt.Errorf("%w: %s: empty response body", ErrDownload, url)
	}

	if err := tmpFile.Close(); err != nil {
		return nil, fmt.Errorf("%w: close temp file: %w", ErrFileSystem, err)
	}

	verified := VerificationNone
	if opts.Verify != nil {
		verified, err = opts.Verify(tmpPath)
		if err != nil {
			return nil, err
		}
	}

	if err := SetExecutable(tmpPath); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileSystem, err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return nil, fmt.Errorf("%w: rename temp file: %w", ErrFileSystem, err)
	}
	cleanupNeeded = false

	return &DownloadResult{
		URL:          url,
		Path:         destPath,
		Bytes:        written,
		Verified:     verified,
		DownloadTime: time.Since(start),
	}, nil
}

// copyBody copies src to dst, telling read failures (download) apart from
// write failures (filesystem).
func copyBody(dst io.Writer, src io.Reader) (int64, error) {
	buf := make([]byte, 32*1024)
	var written int64
	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			wn, werr := dst.Write(buf[:n])
			written += int64(wn)
			if werr != nil {
				return written, fmt.Errorf("%w: write binary: %w", ErrFileSystem, werr)
			}
			if wn != n {
				return written, fmt.Errorf("%w: write binary: %w", ErrFileSystem, io.ErrShortWrite)
			}
		}
		if rerr != nil {
			if errors.Is(rerr, io.EOF) {
				return written, nil
			}
			return written, fmt.Errorf("%w: read response body: %w", ErrDownload, rerr)
		}
	}
}

// progressReader reports cumulative bytes read.
type progressReader struct {
	r     io.Reader
	total int64
	done  int64
	fn    ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.done += int64(n)
		p.fn(p.done, p.total)
	}
	return n, err
}

// SetExecutable marks path executable for everyone, readable and writable by
// the owner.
func SetExecutable(path string) error {
	if err := os.Chmod(path, 0o755); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	return nil
}

// fileExists checks if a regular, non-empty file exists at path
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Size() > 0
}
