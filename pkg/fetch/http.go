package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/config"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/errors"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/logging"
)

// statusError is an unexpected HTTP status
type statusError struct {
	url  string
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("GET %s: %d %s", e.url, e.code, http.StatusText(e.code))
}

// permanentError marks a failure that repeating the request cannot fix
type permanentError struct {
	error
}

func (e permanentError) Unwrap() error { return e.error }

// retryable reports whether a failed attempt may succeed when repeated
func retryable(err error) bool {
	switch e := err.(type) {
	case permanentError:
		return false
	case *statusError:
		return e.code == http.StatusTooManyRequests || e.code >= 500
	}
	return true
}

// retry runs fn up to Download.Retries times, waiting RetryDelay between
// attempts. Client errors other than 429 are not retried.
func (c *Client) retry(ctx context.Context, what string, fn func() error) error {
	log := logging.GetLogger("fetch")
	var err error
	for attempt := 1; attempt <= c.download.Retries; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		log.Debug().Err(err).
			Str("what", what).
			Int("attempt", attempt).
			Int("of", c.download.Retries).
			Msg("Attempt failed")
		if !retryable(err) || attempt == c.download.Retries {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.download.RetryDelay):
		}
	}
	return err
}

func (c *Client) newRequest(ctx context.Context, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if c.download.UserAgent != "" {
		req.Header.Set("User-Agent", c.download.UserAgent)
	}
	return req, nil
}

// Download fetches url into path with retries. The body is written to a
// ".part" file first so a failed download never leaves a truncated archive
// at path. It returns the number of bytes written.
func (c *Client) Download(ctx context.Context, url, path string) (int64, error) {
	return c.downloadWith(ctx, url, path, nil)
}

func (c *Client) downloadWith(ctx context.Context, url, path string, check func(*http.Response) error) (int64, error) {
	log := logging.GetLogger("fetch")
	partial := path + ".part"

	var written int64
	err := c.retry(ctx, url, func() error {
		req, err := c.newRequest(ctx, url)
		if err != nil {
			return err
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusOK {
			return &statusError{url: url, code: resp.StatusCode}
		}
		if check != nil {
			if err := check(resp); err != nil {
				return err
			}
		}

		out, err := c.fs.Create(partial, 0644)
		if err != nil {
			return err
		}
		written, err = io.Copy(out, resp.Body)
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		return err
	})
	if err != nil {
		_ = c.fs.Remove(partial)
		return 0, errors.Wrapf(err, errors.ErrFetch, "download of %s failed", url).
			WithPath(path).
			WithDetail("url", url)
	}

	if err := c.fs.Rename(partial, path); err != nil {
		_ = c.fs.Remove(partial)
		return 0, errors.Wrapf(err, errors.ErrRename, "cannot move download into place at %s", path).WithPath(path)
	}

	log.Info().
		Str("file", filepath.Base(path)).
		Str("size", humanize.Bytes(uint64(written))).
		Msg("Downloaded")
	return written, nil
}

func (c *Client) fetchHTTP(ctx context.Context, src config.Source, destDir string) (string, error) {
	if strings.TrimSpace(src.URL) == "" {
		return "", errors.New(errors.ErrInvalidInput, "http source needs a url")
	}
	path := filepath.Join(destDir, fileName(src, src.URL, "download.zip"))
	if _, err := c.Download(ctx, src.URL, path); err != nil {
		return "", err
	}
	return path, nil
}
