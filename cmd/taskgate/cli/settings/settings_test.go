package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFile(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".taskgate", "settings.json")
	enabled := true
	in := &Settings{
		TaskListID: "proj-dev",
		Keywords:   []string{"dev", "release"},
		Enabled:    &enabled,
		LogLevel:   "debug",
	}
	require.NoError(t, Save(path, in))

	out, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, in.TaskListID, out.TaskListID)
	assert.Equal(t, in.Keywords, out.Keywords)
	require.NotNil(t, out.Enabled)
	assert.True(t, *out.Enabled)
	assert.Equal(t, "debug", out.LogLevel)
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o600))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestFileSource_Undefined(t *testing.T) {
	src := FileSource{SourceName: "project", Path: filepath.Join(t.TempDir(), "nope.json")}
	_, ok := src.Load()
	assert.False(t, ok)
}

func TestFileSource_MalformedCountsAsUndefined(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o600))
	_, ok := FileSource{SourceName: "project", Path: path}.Load()
	assert.False(t, ok)
}

func TestFileSource_NonCheckKeysDoNotClaimTier(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"log_level":"debug"}`), 0o600))
	_, ok := FileSource{SourceName: "project", Path: path}.Load()
	assert.False(t, ok, "a file setting only log_level must not win the check-config tier")
}

func TestFileSource_Defined(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"keywords":["qa"],"enabled":false}`), 0o600))

	cfg, ok := FileSource{SourceName: "project", Path: path}.Load()
	require.True(t, ok)
	assert.Equal(t, []string{"qa"}, cfg.Keywords)
	require.NotNil(t, cfg.Enabled)
	assert.False(t, *cfg.Enabled)
}

func TestSources_Order(t *testing.T) {
	sources := Sources(t.TempDir())
	require.Len(t, sources, 3)
	assert.Equal(t, "project", sources[0].Name())
	assert.Equal(t, "global", sources[1].Name())
	assert.Equal(t, "environment", sources[2].Name())
}
