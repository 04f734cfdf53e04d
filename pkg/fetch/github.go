package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/config"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/errors"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/logging"
)

// Release is the part of a GitHub release the tool reads
type Release struct {
	Name    string  `json:"name"`
	TagName string  `json:"tag_name"`
	Assets  []Asset `json:"assets"`
}

// Asset is a file attached to a release
type Asset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
	Size               int64  `json:"size"`
}

// DefaultAssetPatterns select a release asset when a source lists none
var DefaultAssetPatterns = []string{".zip"}

// MatchAsset returns the asset for the first pattern that any asset name
// contains, ignoring case. Patterns are tried in order, so earlier patterns
// take precedence over asset order.
func MatchAsset(assets []Asset, patterns []string) (Asset, bool) {
	if len(patterns) == 0 {
		patterns = DefaultAssetPatterns
	}
	for _, pattern := range patterns {
		p := strings.ToLower(pattern)
		for _, asset := range assets {
			if strings.Contains(strings.ToLower(asset.Name), p) {
				return asset, true
			}
		}
	}
	return Asset{}, false
}

// Release looks up a release of repo ("owner/name"); an empty tag means the
// latest release. Lookups are cached for the lifetime of the client.
func (c *Client) Release(ctx context.Context, repo, tag string) (*Release, error) {
	key := repo + "@" + tag
	if rel, ok := c.releases.Get(key); ok {
		return rel, nil
	}

	url := fmt.Sprintf("%s/repos/%s/releases/latest", strings.TrimRight(c.download.GitHubAPI, "/"), repo)
	if tag != "" {
		url = fmt.Sprintf("%s/repos/%s/releases/tags/%s", strings.TrimRight(c.download.GitHubAPI, "/"), repo, tag)
	}

	var rel Release
	err := c.retry(ctx, url, func() error {
		req, err := c.newRequest(ctx, url)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/vnd.github+json")
		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode != http.StatusOK {
			return &statusError{url: url, code: resp.StatusCode}
		}
		if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
			return permanentError{fmt.Errorf("decode release: %w", err)}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFetch, "cannot get release information for %s", repo).
			WithDetail("repo", repo).
			WithDetail("tag", tag)
	}

	c.releases.Add(key, &rel)
	return &rel, nil
}

func (c *Client) fetchGitHub(ctx context.Context, src config.Source, destDir string) (string, error) {
	log := logging.GetLogger("fetch")
	if src.Repo == "" {
		return "", errors.New(errors.ErrInvalidInput, "github source needs a repo")
	}

	rel, err := c.Release(ctx, src.Repo, src.Tag)
	if err != nil {
		return "", err
	}
	log.Debug().Str("repo", src.Repo).Str("release", rel.Name).Str("tag", rel.TagName).Msg("Found release")

	asset, ok := MatchAsset(rel.Assets, src.AssetPatterns)
	if !ok || asset.BrowserDownloadURL == "" {
		names := make([]string, 0, len(rel.Assets))
		for _, a := range rel.Assets {
			names = append(names, a.Name)
		}
		return "", errors.Newf(errors.ErrFetch, "no suitable asset in release %s of %s", rel.TagName, src.Repo).
			WithDetail("assets", names).
			WithDetail("patterns", src.AssetPatterns)
	}

	path := filepath.Join(destDir, fileName(src, asset.Name, "release.zip"))
	if _, err := c.Download(ctx, asset.BrowserDownloadURL, path); err != nil {
		return "", err
	}
	return path, nil
}
