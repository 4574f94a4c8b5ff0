// Package download fetches release assets from GitHub release pages.
package download

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/alpertunga-bile/third-wheel/internal/logger"
	pkgerrors "github.com/alpertunga-bile/third-wheel/pkg/errors"
	"github.com/alpertunga-bile/third-wheel/pkg/fsutil"
	"github.com/alpertunga-bile/third-wheel/pkg/model"
	"github.com/schollz/progressbar/v3"
)

// chunkSize is the copy buffer used while streaming an asset to disk.
const chunkSize = 32 * 1024

// Getter performs a GET request and returns only successful responses.
type Getter interface {
	Get(ctx context.Context, rawURL string) (*http.Response, error)
}

// Fetcher downloads release assets with a byte progress bar.
type Fetcher struct {
	client   Getter
	progress io.Writer
}

// NewFetcher creates a new Fetcher. Progress is drawn to progress; nil means
// stderr.
func NewFetcher(client Getter, progress io.Writer) *Fetcher {
	if progress == nil {
		progress = os.Stderr
	}
	return &Fetcher{client: client, progress: progress}
}

// ReleaseURLs returns the asset URLs tried in order: tag with a "v" prefix,
// then the bare version.
func ReleaseURLs(repoURL, version, filename string) ([]string, error) {
	withV, err := url.JoinPath(repoURL, "releases", "download", "v"+version, filename)
	if err != nil {
		return nil, err
	}
	bare, err := url.JoinPath(repoURL, "releases", "download", version, filename)
	if err != nil {
		return nil, err
	}
	return []string{withV, bare}, nil
}

// Fetch downloads the release asset filename of pkg into dir and returns the
// local path. The caller decides whether a download is needed.
func (f *Fetcher) Fetch(ctx context.Context, dir, filename string, pkg *model.ResolvedPackage) (string, error) {
	urls, err := ReleaseURLs(pkg.GitHubURL, pkg.Version, filename)
	if err != nil {
		return "", pkgerrors.Wrapf(ErrArchiveUnavailable, "%s: %v", filename, err)
	}

	resp, err := f.firstAvailable(ctx, urls)
	if err != nil {
		return "", pkgerrors.Wrapf(ErrArchiveUnavailable, "%s: %v", filename, err)
	}
	defer func() { _ = resp.Body.Close() }()

	absPath := filepath.Join(dir, filename)
	tmpPath, err := f.writeBodyToTemp(resp, absPath, filename)
	if err != nil {
		return "", err
	}
	if err := finalizeFile(tmpPath, absPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", err
	}
	return absPath, nil
}

func (f *Fetcher) firstAvailable(ctx context.Context, urls []string) (*http.Response, error) {
	var lastErr error
	for _, u := range urls {
		resp, err := f.client.Get(ctx, u)
		if err == nil {
			logger.Debugf("Downloading release asset %s", u)
			return resp, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Debug("Release URL not available", logger.Fields{"url": u, "error": err.Error()})
		lastErr = err
	}
	return nil, lastErr
}

func (f *Fetcher) writeBodyToTemp(resp *http.Response, absPath, description string) (string, error) {
	if err := fsutil.EnsureFileDir(absPath); err != nil {
		return "", pkgerrors.Wrap(err, "could not create download dir")
	}
	tmpPath := absPath + ".part"
	tmp, err := os.Create(tmpPath)
	if err != nil {
		return "", pkgerrors.Wrap(err, "could not create temp file")
	}

	bar := f.newBar(resp.ContentLength, description)
	buf := make([]byte, chunkSize)
	if _, err := io.CopyBuffer(io.MultiWriter(tmp, bar), resp.Body, buf); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", pkgerrors.Wrapf(ErrDownloadFailed, "%s: %v", description, err)
	}
	_ = bar.Finish()

	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", pkgerrors.Wrap(err, "could not sync file")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", pkgerrors.Wrap(err, "could not close file")
	}
	return tmpPath, nil
}

// newBar sizes the bar to the content length; an unknown length (-1) gives
// a spinner.
func (f *Fetcher) newBar(contentLength int64, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions64(contentLength,
		progressbar.OptionSetWriter(f.progress),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionOnCompletion(func() {
			_, _ = io.WriteString(f.progress, "\n")
		}),
	)
}

func finalizeFile(tmpPath, absPath string) error {
	if err := fsutil.Move(tmpPath, absPath); err != nil {
		return pkgerrors.Wrap(err, "could not finalize file")
	}
	if err := os.Chmod(absPath, fsutil.FileModeDefault); err != nil {
		return pkgerrors.Wrap(err, "could not set permissions")
	}
	return nil
}
