// Package fetch downloads dependency archives. Each source type in the
// configuration (GitHub release, direct HTTP link, Google Drive file, S3
// object, local file) resolves to a local archive path that the archive
// installer can consume.
package fetch

import (
	"context"
	"net/http"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/config"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/errors"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/filesystem"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/logging"
)

// Fetcher turns a source descriptor into a local archive file
type Fetcher interface {
	FetchArchive(ctx context.Context, src config.Source, destDir string) (string, error)
}

// DefaultGDriveURL downloads a publicly shared Drive file by id
const DefaultGDriveURL = "https://drive.usercontent.google.com/download"

// Options configures a Client
type Options struct {
	Download config.DownloadConfig
	S3       config.S3Config

	// HTTPClient defaults to a client with Download.Timeout
	HTTPClient *http.Client
	// GDriveURL overrides DefaultGDriveURL
	GDriveURL  string
	FileSystem filesystem.FS
}

// Client fetches archives from every supported source type
type Client struct {
	download  config.DownloadConfig
	s3        config.S3Config
	http      *http.Client
	gdriveURL string
	fs        filesystem.FS
	releases  *lru.Cache[string, *Release]
}

// New returns a Client for opts
func New(opts Options) (*Client, error) {
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Download.Timeout}
	}
	if opts.GDriveURL == "" {
		opts.GDriveURL = DefaultGDriveURL
	}
	if opts.FileSystem == nil {
		opts.FileSystem = filesystem.NewOS()
	}
	if opts.Download.Retries < 1 {
		opts.Download.Retries = 1
	}
	if opts.Download.GitHubAPI == "" {
		opts.Download.GitHubAPI = "https://api.github.com"
	}
	size := opts.Download.CacheSize
	if size <= 0 {
		size = 64
	}
	cache, err := lru.New[string, *Release](size)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "cannot create release cache")
	}
	return &Client{
		download:  opts.Download,
		s3:        opts.S3,
		http:      opts.HTTPClient,
		gdriveURL: opts.GDriveURL,
		fs:        opts.FileSystem,
		releases:  cache,
	}, nil
}

// FetchArchive downloads the archive described by src into destDir and
// returns its path
func (c *Client) FetchArchive(ctx context.Context, src config.Source, destDir string) (string, error) {
	log := logging.GetLogger("fetch")
	log.Debug().Str("type", src.Type).Str("dest", destDir).Msg("Fetching archive")

	if err := c.fs.MkdirAll(destDir, 0755); err != nil {
		return "", errors.Wrapf(err, errors.ErrDirCreate, "cannot create download directory %s", destDir).WithPath(destDir)
	}

	switch src.Type {
	case config.SourceGitHub:
		return c.fetchGitHub(ctx, src, destDir)
	case config.SourceHTTP:
		return c.fetchHTTP(ctx, src, destDir)
	case config.SourceGDrive:
		return c.fetchGDrive(ctx, src, destDir)
	case config.SourceS3:
		return c.fetchS3(ctx, src, destDir)
	case config.SourceLocal:
		return c.fetchLocal(src, destDir)
	default:
		return "", errors.Newf(errors.ErrInvalidInput, "unknown source type %q", src.Type)
	}
}

// fileName picks the local name of a download: the configured name, else
// the last element of hint, else fallback
func fileName(src config.Source, hint, fallback string) string {
	if src.FileName != "" {
		return filepath.Base(src.FileName)
	}
	if i := strings.IndexAny(hint, "?#"); i >= 0 {
		hint = hint[:i]
	}
	if base := filepath.Base(filepath.FromSlash(hint)); base != "." && base != string(filepath.Separator) && base != "" {
		return base
	}
	return fallback
}
