package version

import (
	"runtime"
	"strconv"
	"time"

	"github.com/Masterminds/semver"
	"github.com/rs/zerolog/log"

	"github.com/sfdn-project/oracle-gateway/pkg/models"
)

// DevelopmentGitVersion is reported by binaries that were built outside the
// release pipeline, i.e. without the ldflags below.
const DevelopmentGitVersion = "v0.0.0-xxxxxxx"

// Injected at build time through -ldflags.
var (
	GITVERSION = DevelopmentGitVersion
	GITCOMMIT  = ""
	BUILDDATE  = "" // RFC3339
)

// Get returns the version information baked into the binary.
func Get() *models.BuildVersionInfo {
	buildDate := time.Time{}
	if BUILDDATE != "" {
		parsed, err := time.Parse(time.RFC3339, BUILDDATE)
		if err != nil {
			log.Debug().Str("BuildDate", BUILDDATE).Msg("Could not parse the build date baked into the binary")
		} else {
			buildDate = parsed
		}
	}

	versionInfo := &models.BuildVersionInfo{
		GitVersion: GITVERSION,
		GitCommit:  GITCOMMIT,
		BuildDate:  buildDate,
		GOOS:       runtime.GOOS,
		GOARCH:     runtime.GOARCH,
	}

	if parsed, err := semver.NewVersion(GITVERSION); err != nil {
		log.Debug().Str("GitVersion", GITVERSION).Msg("Could not parse major and minor version from the git version")
	} else {
		versionInfo.Major = strconv.FormatInt(parsed.Major(), 10)
		versionInfo.Minor = strconv.FormatInt(parsed.Minor(), 10)
	}

	return versionInfo
}
