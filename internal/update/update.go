// Package update asks GitHub whether a newer revolut-cli release exists.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/mod/semver"

	"github.com/revolut-cli/revolut-cli/internal/debug"
)

const (
	// DefaultGitHubReleasesURL is the latest-release endpoint of this repository.
	DefaultGitHubReleasesURL = "https://api.github.com/repos/revolut-cli/revolut-cli/releases/latest"
	CheckTimeout             = 5 * time.Second
)

// GitHubReleasesURL is used by a Checker without ReleasesURL. Tests replace it.
var GitHubReleasesURL = DefaultGitHubReleasesURL

// ErrUnversioned is returned for development builds, which are never compared.
var ErrUnversioned = errors.New("unversioned build")

type Release struct {
	TagName    string `json:"tag_name"`
	HTMLURL    string `json:"html_url"`
	Prerelease bool   `json:"prerelease"`
}

type CheckResult struct {
	CurrentVersion  string `json:"current_version"`
	LatestVersion   string `json:"latest_version"`
	UpdateURL       string `json:"update_url"`
	UpdateAvailable bool   `json:"update_available"`
}

// Checker compares the running version with the latest GitHub release. The
// zero value is ready to use.
type Checker struct {
	ReleasesURL string
	HTTP        *http.Client
	// UserAgent defaults to revolut-cli/<current version>.
	UserAgent string
}

// Check fetches the latest release. Every failure is returned; the request is
// bounded by CheckTimeout regardless of ctx.
func (c Checker) Check(ctx context.Context, currentVersion string) (*CheckResult, error) {
	if currentVersion == "dev" || currentVersion == "" {
		return nil, ErrUnversioned
	}

	ctx, cancel := context.WithTimeout(ctx, CheckTimeout)
	defer cancel()

	release, err := c.latest(ctx, currentVersion)
	if err != nil {
		return nil, err
	}
	return &CheckResult{
		CurrentVersion:  currentVersion,
		LatestVersion:   strings.TrimPrefix(release.TagName, "v"),
		UpdateURL:       release.HTMLURL,
		UpdateAvailable: isNewer(currentVersion, release),
	}, nil
}

func (c Checker) latest(ctx context.Context, currentVersion string) (Release, error) {
	endpoint := c.ReleasesURL
	if endpoint == "" {
		endpoint = GitHubReleasesURL
	}
	userAgent := c.UserAgent
	if userAgent == "" {
		userAgent = "revolut-cli/" + currentVersion
	}
	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Release{}, fmt.Errorf("build release request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return Release{}, fmt.Errorf("fetch latest release: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Release{}, fmt.Errorf("fetch latest release: status %d", resp.StatusCode)
	}

	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return Release{}, fmt.Errorf("decode latest release: %w", err)
	}
	if release.TagName == "" {
		return Release{}, errors.New("latest release has no tag")
	}
	return release, nil
}

// CheckForUpdate runs a default Checker. It returns nil on any failure so the
// CLI never blocks on GitHub; failures are logged when debug is enabled.
func CheckForUpdate(ctx context.Context, currentVersion string) *CheckResult {
	result, err := Checker{}.Check(ctx, currentVersion)
	if err != nil {
		if debug.IsEnabled(ctx) && !errors.Is(err, ErrUnversioned) {
			slog.Debug("update check failed", "version", currentVersion, "error", err)
		}
		return nil
	}
	return result
}

// isNewer reports whether release is a stable version above current.
// Unparseable versions never count as updates.
func isNewer(current string, release Release) bool {
	if release.Prerelease {
		return false
	}
	cur, latest := normalizeVersion(current), normalizeVersion(release.TagName)
	if !semver.IsValid(cur) || !semver.IsValid(latest) {
		return false
	}
	return semver.Compare(latest, cur) > 0
}

func normalizeVersion(v string) string {
	if !strings.HasPrefix(v, "v") {
		return "v" + v
	}
	return v
}
