package guard

import (
	"bytes"
	"encoding/json"
	"os"
)

// customTitleMarker identifies transcript lines that may carry a custom
// session title. Only lines containing the raw marker are JSON-parsed;
// everything else in the transcript is skipped without decoding.
const customTitleMarker = `"customTitle"`

// customTitleLine is a transcript record carrying a user-assigned session title.
type customTitleLine struct {
	Type        string `json:"type"`
	CustomTitle string `json:"customTitle"`
}

// SessionName returns the most recent custom session title recorded in the
// transcript, or "" if the file is missing or no title was ever set.
// Transcript lines are appended chronologically, so the last parseable title
// record wins. Malformed lines are skipped.
func SessionName(transcriptPath string) string {
	if transcriptPath == "" {
		return ""
	}
	data, err := os.ReadFile(transcriptPath) //nolint:gosec // path comes from the hook payload
	if err != nil {
		return ""
	}

	marker := []byte(customTitleMarker)

	var name string
	offset := 0
	for {
		idx := bytes.Index(data[offset:], marker)
		if idx < 0 {
			break
		}
		pos := offset + idx

		// Isolate the enclosing JSONL line and parse it independently.
		start := bytes.LastIndexByte(data[:pos], '\n') + 1
		end := bytes.IndexByte(data[pos:], '\n')
		if end < 0 {
			end = len(data)
		} else {
			end += pos
		}

		var line customTitleLine
		if err := json.Unmarshal(data[start:end], &line); err == nil {
			if line.Type == "custom-title" && line.CustomTitle != "" {
				name = line.CustomTitle
			}
		}

		offset = end
		if offset >= len(data) {
			break
		}
	}
	return name
}
