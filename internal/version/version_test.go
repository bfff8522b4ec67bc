package version

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseTime(t *testing.T) {
	assert.True(t, parseTime("unknown").IsZero())
	assert.True(t, parseTime("yesterday").IsZero())
	assert.Equal(t, 2024, parseTime("2024-03-01T10:00:00Z").Year())
	assert.Equal(t, time.March, parseTime("2024-03-01 10:00:00").Month())
}

func TestShort(t *testing.T) {
	assert.Equal(t, "v1.2.0 (abc1234)", BuildInfo{Version: "v1.2.0", GitCommit: "abc1234def"}.Short())
	assert.Equal(t, "v1.2.0", BuildInfo{Version: "v1.2.0", GitCommit: "unknown"}.Short())
	assert.Equal(t, "dev-abc1234", BuildInfo{Version: "dev-abc1234", GitCommit: "abc1234def"}.Short())
}

func TestDetailed(t *testing.T) {
	b := BuildInfo{Version: "v1.0.0", GitCommit: "abc", Dirty: true, GoVersion: "go1.24", Platform: "linux/amd64"}
	out := b.Detailed()
	assert.Contains(t, out, "Version: v1.0.0")
	assert.Contains(t, out, "Commit: abc (dirty)")
	assert.NotContains(t, out, "Built:")
	assert.Contains(t, out, "Platform: linux/amd64")
}

func TestIsRelease(t *testing.T) {
	assert.True(t, BuildInfo{Version: "v1.0.0"}.IsRelease())
	assert.False(t, BuildInfo{Version: "dev"}.IsRelease())
	assert.False(t, BuildInfo{Version: "dev-abc1234"}.IsRelease())
}

func TestGetFillsRuntime(t *testing.T) {
	b := Get()
	assert.NotEmpty(t, b.Version)
	assert.NotEmpty(t, b.GoVersion)
	assert.Contains(t, b.Platform, "/")
}
