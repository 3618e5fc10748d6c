// Package version exposes the edgectl build version.
package version

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Version is the edgectl version, overridden at build time via
// -ldflags "-X github.com/edgekit/edgectl/pkg/version.Version=...".
//
//nolint:gochecknoglobals // Set once by the linker, read-only afterwards
var Version = "0.3.0"

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}

// Validate checks that v is a valid semantic version.
func Validate(v string) error {
	if _, err := semver.NewVersion(v); err != nil {
		return fmt.Errorf("invalid version %q: %w", v, err)
	}
	return nil
}

// AtLeast reports whether the current version satisfies the given minimum.
// An unparseable minimum or current version returns false with an error.
func AtLeast(minimum string) (bool, error) {
	cur, err := semver.NewVersion(Version)
	if err != nil {
		return false, fmt.Errorf("invalid build version %q: %w", Version, err)
	}
	minVer, err := semver.NewVersion(minimum)
	if err != nil {
		return false, fmt.Errorf("invalid minimum version %q: %w", minimum, err)
	}
	return !cur.LessThan(minVer), nil
}

// UserAgent returns the User-Agent header value sent with API requests.
func UserAgent() string {
	return "edgectl/" + Version
}
