// Package version reports the hcp build version.
package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Dev is reported when no release version was stamped at build time.
const Dev = "dev"

// Normalize returns raw as canonical semver (without a leading "v") when it
// parses, or raw unchanged otherwise. An empty string becomes Dev.
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Dev
	}
	v, err := semver.NewVersion(raw)
	if err != nil {
		return raw
	}
	return v.String()
}

// UserAgent returns the User-Agent header value for healthcheck requests.
func UserAgent(raw string) string {
	return "hcp/" + Normalize(raw)
}
