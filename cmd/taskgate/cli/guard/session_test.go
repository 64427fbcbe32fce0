package guard

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTranscript(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transcript.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(lines), 0o644))
	return path
}

func TestSessionName_LastTitleWins(t *testing.T) {
	path := writeTranscript(t,
		`{"type":"user","message":{"content":"hello"}}
{"type":"custom-title","customTitle":"first title"}
{"type":"assistant","message":{"content":"hi"}}
{"type":"custom-title","customTitle":"dev session"}
`)
	assert.Equal(t, "dev session", SessionName(path))
}

func TestSessionName_NoTitleRecords(t *testing.T) {
	path := writeTranscript(t,
		`{"type":"user","message":{"content":"hello"}}
{"type":"assistant","message":{"content":"hi"}}
`)
	assert.Empty(t, SessionName(path))
}

func TestSessionName_MissingFile(t *testing.T) {
	assert.Empty(t, SessionName(filepath.Join(t.TempDir(), "nope.jsonl")))
	assert.Empty(t, SessionName(""))
}

func TestSessionName_MalformedLineSkipped(t *testing.T) {
	path := writeTranscript(t,
		`{"type":"custom-title","customTitle":"good title"}
{"type":"custom-title","customTitle": broken json
`)
	assert.Equal(t, "good title", SessionName(path))
}

func TestSessionName_MarkerInOtherRecordIgnored(t *testing.T) {
	// The marker substring can appear inside ordinary message content; only
	// records tagged as custom-title count.
	path := writeTranscript(t,
		`{"type":"user","message":{"content":"set \"customTitle\" please"}}
{"type":"other","customTitle":"not tagged"}
`)
	assert.Empty(t, SessionName(path))
}

func TestSessionName_EmptyTitleIgnored(t *testing.T) {
	path := writeTranscript(t,
		`{"type":"custom-title","customTitle":"kept"}
{"type":"custom-title","customTitle":""}
`)
	assert.Equal(t, "kept", SessionName(path))
}

func TestSessionName_NoTrailingNewline(t *testing.T) {
	path := writeTranscript(t, `{"type":"custom-title","customTitle":"tail"}`)
	assert.Equal(t, "tail", SessionName(path))
}
