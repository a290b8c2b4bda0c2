package core

import (
	"fmt"

	"go.uber.org/zap"
)

// Version is the resolved process version, set once by SetVersion.
var Version string

// NoVersion is the fallback when neither a build flag nor Conf.Version is set.
const NoVersion = "no_version_info"

// SetVersion resolves Version with priority versionByBuildFlag (a linker
// -X value) over c.Version (CLI flag/env) over NoVersion, and logs the
// result.
func SetVersion(c *Conf, versionByBuildFlag string) {
	switch {
	case versionByBuildFlag != "":
		Version = versionByBuildFlag
	case c.Version != "":
		Version = c.Version
	default:
		Version = NoVersion
	}
	zap.L().Info(fmt.Sprintf("version is %s", Version))
}
