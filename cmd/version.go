package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-version"
)

// AppVersion is set at build time with -ldflags "-X ...cmd.AppVersion=v1.2.3".
var AppVersion = "v0.0.0"

const releasesURL = "https://api.github.com/repos/nulzo/intent-router/releases/latest"

type gitHubRelease struct {
	TagName string `json:"tag_name"`
}

// UpdateInfo describes a newer published release.
type UpdateInfo struct {
	Current string
	Latest  string
}

func (u *UpdateInfo) String() string {
	return fmt.Sprintf("a newer version is available: %s (running %s)", u.Latest, u.Current)
}

// CheckForUpdates returns the latest release if it is newer than current.
// Any failure, including an unparsable version, yields nil.
func CheckForUpdates(ctx context.Context, url, current string) *UpdateInfo {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	var release gitHubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil
	}

	cur, err := version.NewVersion(current)
	if err != nil {
		return nil
	}
	latest, err := version.NewVersion(release.TagName)
	if err != nil {
		return nil
	}

	if cur.LessThan(latest) {
		return &UpdateInfo{Current: current, Latest: release.TagName}
	}
	return nil
}

// CheckLatestRelease checks the project's GitHub releases against AppVersion.
func CheckLatestRelease(ctx context.Context) *UpdateInfo {
	return CheckForUpdates(ctx, releasesURL, AppVersion)
}
