package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFillFromBuildInfo(t *testing.T) {
	build := &debug.BuildInfo{
		Main: debug.Module{Version: "v0.3.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.time", Value: "2025-02-01T10:00:00Z"},
		},
	}

	t.Run("Should fill unknown fields from build info", func(t *testing.T) {
		info := Info{Version: "unknown", CommitHash: "unknown", BuildDate: "unknown"}
		fillFromBuildInfo(&info, build)
		assert.Equal(t, "v0.3.1", info.Version)
		assert.Equal(t, "0123456789abcdef", info.CommitHash)
		assert.Equal(t, "2025-02-01T10:00:00Z", info.BuildDate)
	})

	t.Run("Should keep values injected by ldflags", func(t *testing.T) {
		info := Info{Version: "v1.0.0", CommitHash: "abc123", BuildDate: "2024-01-01T00:00:00Z"}
		fillFromBuildInfo(&info, build)
		assert.Equal(t, "v1.0.0", info.Version)
		assert.Equal(t, "abc123", info.CommitHash)
		assert.Equal(t, "2024-01-01T00:00:00Z", info.BuildDate)
	})

	t.Run("Should ignore development builds", func(t *testing.T) {
		info := Info{Version: "unknown"}
		fillFromBuildInfo(&info, &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
		assert.Equal(t, "unknown", info.Version)
	})
}

func TestInfo_String(t *testing.T) {
	t.Run("Should shorten long commit hashes", func(t *testing.T) {
		info := Info{
			Version:    "v1.0.0",
			CommitHash: "0123456789abcdef",
			BuildDate:  "2024-01-01",
			GoVersion:  "go1.25.1",
			Platform:   "linux/amd64",
		}
		assert.Equal(t, "tagflat v1.0.0 (commit 0123456789ab, built 2024-01-01, go1.25.1 linux/amd64)", info.String())
	})
}
