package version

import (
	"github.com/alpertunga-bile/third-wheel/internal/logger"
	goversion "github.com/hashicorp/go-version"
)

// IsNewer reports whether latest is a newer release than current.
// Tags that are not semantic versions are compared as plain strings, so any
// difference counts as newer.
func IsNewer(current, latest string) bool {
	cv, errC := goversion.NewVersion(current)
	lv, errL := goversion.NewVersion(latest)
	if errC != nil || errL != nil {
		logger.Warnf("comparing %q with %q as plain strings: not semantic versions", current, latest)
		return current != latest
	}
	return lv.GreaterThan(cv)
}
