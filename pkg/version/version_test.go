//go:build unit || !integration

package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetReportsDevelopmentBuild(t *testing.T) {
	versionInfo := Get()
	require.NotNil(t, versionInfo)
	assert.Equal(t, DevelopmentGitVersion, versionInfo.GitVersion)
	assert.Equal(t, "0", versionInfo.Major)
	assert.Equal(t, "0", versionInfo.Minor)
	assert.Equal(t, runtime.GOOS, versionInfo.GOOS)
	assert.Equal(t, runtime.GOARCH, versionInfo.GOARCH)
	assert.True(t, versionInfo.BuildDate.IsZero())
}

func TestGetParsesReleaseVersion(t *testing.T) {
	oldVersion, oldDate := GITVERSION, BUILDDATE
	t.Cleanup(func() {
		GITVERSION, BUILDDATE = oldVersion, oldDate
	})
	GITVERSION = "v1.4.2"
	BUILDDATE = "2024-02-07T19:40:11Z"

	versionInfo := Get()
	require.NotNil(t, versionInfo)
	assert.Equal(t, "1", versionInfo.Major)
	assert.Equal(t, "4", versionInfo.Minor)
	assert.Equal(t, 2024, versionInfo.BuildDate.Year())
}

func TestGetToleratesUnparseableVersion(t *testing.T) {
	oldVersion := GITVERSION
	t.Cleanup(func() { GITVERSION = oldVersion })
	GITVERSION = "not-a-version"

	versionInfo := Get()
	require.NotNil(t, versionInfo)
	assert.Equal(t, "not-a-version", versionInfo.GitVersion)
	assert.Empty(t, versionInfo.Major)
	assert.Empty(t, versionInfo.Minor)
}
