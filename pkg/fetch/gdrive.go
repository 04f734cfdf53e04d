package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/config"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/errors"
)

// GDriveURL returns the direct download link of a shared Drive file
func (c *Client) GDriveURL(id string) string {
	q := url.Values{}
	q.Set("id", id)
	q.Set("export", "download")
	q.Set("confirm", "t")
	return c.gdriveURL + "?" + q.Encode()
}

func (c *Client) fetchGDrive(ctx context.Context, src config.Source, destDir string) (string, error) {
	if src.ID == "" {
		return "", errors.New(errors.ErrInvalidInput, "gdrive source needs an id")
	}
	path := filepath.Join(destDir, fileName(src, "", src.ID+".zip"))

	// Drive answers with an HTML page instead of the file when it is not
	// shared publicly
	notHTML := func(resp *http.Response) error {
		if strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html") {
			return permanentError{fmt.Errorf("drive returned a web page for %s, check that the file is shared publicly", src.ID)}
		}
		return nil
	}
	if _, err := c.downloadWith(ctx, c.GDriveURL(src.ID), path, notHTML); err != nil {
		return "", err
	}
	return path, nil
}
