package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/klauern/skills-cli/internal/logging"
)

// Default GitHub settings.
const (
	DefaultGitHubURL      = "https://github.com"
	DefaultBranch         = "main"
	DefaultFallbackBranch = "master"
)

// Archive is a downloaded repository zip.
type Archive struct {
	Owner  string
	Repo   string
	Branch string
	Data   []byte
}

// Reader returns a reader over the archive bytes.
func (a *Archive) Reader() *bytes.Reader {
	return bytes.NewReader(a.Data)
}

// Downloader fetches branch archives from GitHub.
type Downloader struct {
	Client         Doer
	BaseURL        string
	DefaultBranch  string
	FallbackBranch string
}

// NewDownloader returns a Downloader using the default GitHub settings.
func NewDownloader(client Doer) *Downloader {
	return &Downloader{
		Client:         client,
		BaseURL:        DefaultGitHubURL,
		DefaultBranch:  DefaultBranch,
		FallbackBranch: DefaultFallbackBranch,
	}
}

// ArchiveURL returns the zip URL for a branch of owner/repo.
func (d *Downloader) ArchiveURL(owner, repo, branch string) string {
	base := strings.TrimRight(d.BaseURL, "/")
	if base == "" {
		base = DefaultGitHubURL
	}
	return fmt.Sprintf("%s/%s/%s/archive/refs/heads/%s.zip", base, owner, repo, branch)
}

// Download fetches the archive for branch. When branch is the default branch
// and the server answers with an error status, the fallback branch is tried
// once. Transport failures are returned as is. If the fallback also fails,
// the error from the first attempt is returned.
func (d *Downloader) Download(ctx context.Context, owner, repo, branch string) (*Archive, error) {
	data, err := d.get(ctx, d.ArchiveURL(owner, repo, branch))
	if err == nil {
		return &Archive{Owner: owner, Repo: repo, Branch: branch, Data: data}, nil
	}

	var httpErr *HTTPError
	if branch != d.DefaultBranch || d.FallbackBranch == "" || !errors.As(err, &httpErr) {
		return nil, err
	}

	logging.Debug("retrying download with fallback branch",
		logging.Source(owner+"/"+repo),
		logging.Status(httpErr.StatusCode),
	)

	data, fallbackErr := d.get(ctx, d.ArchiveURL(owner, repo, d.FallbackBranch))
	if fallbackErr != nil {
		return nil, err
	}
	return &Archive{Owner: owner, Repo: repo, Branch: d.FallbackBranch, Data: data}, nil
}

func (d *Downloader) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	logging.Debug("downloading archive", logging.URL(url))

	resp, err := d.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if !isSuccess(resp.StatusCode) {
		return nil, newHTTPError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", url, err)
	}
	return data, nil
}
