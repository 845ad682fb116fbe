package version

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-version"
)

const (
	githubReleasesAPI = "https://api.github.com/repos/stratushq/stratus/releases/latest"

	// Version checks hit the network at most once per cacheDuration
	versionCacheFile = ".stratus/version_cache.json"
	cacheDuration    = 24 * time.Hour
)

// VersionCache stores the cached version check result
type VersionCache struct {
	LatestVersion string    `json:"latestVersion"`
	CheckedAt     time.Time `json:"checkedAt"`
}

// GitHubRelease represents a GitHub release response
type GitHubRelease struct {
	TagName string `json:"tag_name"` // e.g., "v1.4.0"
	HTMLURL string `json:"html_url"`
}

// CheckForUpdate checks if a newer version is available.
// Returns (latestVersion, updateAvailable, error).
func CheckForUpdate(ctx context.Context) (latestVersion string, updateAvailable bool, err error) {
	// Dev builds have no meaningful version to compare
	if Version == "dev" {
		return "", false, nil
	}

	if cached, ok := getCachedVersion(); ok {
		return compareVersions(cached)
	}

	latest, err := fetchLatestVersion(ctx)
	if err != nil {
		// A failed check never fails the command
		//nolint:nilerr
		return "", false, nil
	}

	cacheVersion(latest)

	return compareVersions(latest)
}

func compareVersions(latestVersion string) (string, bool, error) {
	current, err := version.NewVersion(strings.TrimPrefix(Version, "v"))
	if err != nil {
		return latestVersion, false, fmt.Errorf("invalid current version: %w", err)
	}

	latest, err := version.NewVersion(strings.TrimPrefix(latestVersion, "v"))
	if err != nil {
		return latestVersion, false, fmt.Errorf("invalid latest version: %w", err)
	}

	return latestVersion, latest.GreaterThan(current), nil
}

func fetchLatestVersion(ctx context.Context) (string, error) {
	client := &http.Client{
		Timeout: 3 * time.Second, // Don't hold up the command
	}

	req, err := http.NewRequestWithContext(ctx, "GET", githubReleasesAPI, nil)
	if err != nil {
		return "", err
	}

	// GitHub API requires a User-Agent
	req.Header.Set("User-Agent", "stratus-cli")

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	//nolint:errcheck // Deferred close, error not actionable
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return "", fmt.Errorf("GitHub API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var release GitHubRelease
	if err := json.Unmarshal(body, &release); err != nil {
		return "", err
	}

	return release.TagName, nil
}

func getCachedVersion() (string, bool) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}

	data, err := os.ReadFile(filepath.Join(homeDir, versionCacheFile)) //nolint:gosec // Cache file in user's home directory
	if err != nil {
		return "", false
	}

	var cache VersionCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return "", false
	}

	if time.Since(cache.CheckedAt) > cacheDuration {
		return "", false
	}

	return cache.LatestVersion, true
}

func cacheVersion(latestVersion string) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return
	}

	cachePath := filepath.Join(homeDir, versionCacheFile)

	//nolint:errcheck,gosec // Best effort directory creation, error not actionable
	os.MkdirAll(filepath.Dir(cachePath), 0755)

	data, err := json.Marshal(VersionCache{
		LatestVersion: latestVersion,
		CheckedAt:     time.Now(),
	})
	if err != nil {
		return
	}

	//nolint:errcheck,gosec // Best effort cache write, error not actionable
	os.WriteFile(cachePath, data, 0644)
}

// PrintUpdateNotification prints an update notification if a newer release
// exists, honoring the user's skipversioncheck config.
func PrintUpdateNotification(ctx context.Context, skipVersionCheck bool) {
	if skipVersionCheck {
		return
	}

	latestVersion, updateAvailable, err := CheckForUpdate(ctx)
	if err != nil || !updateAvailable {
		return
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "⚠️  A new version of stratus is available: %s (you have %s)\n", latestVersion, Version)
	fmt.Fprintf(os.Stderr, "Update with:\n")
	fmt.Fprintf(os.Stderr, "  • Homebrew: brew upgrade stratus\n")
	fmt.Fprintf(os.Stderr, "  • Download: https://github.com/stratushq/stratus/releases/latest\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "To disable these notifications: stratus config set skip-version-check true\n")
	fmt.Fprintf(os.Stderr, "\n")
}
