// Package quiz loads, validates and decodes quiz index and category files.
package quiz

import (
	"encoding/json"
	"log/slog"

	"github.com/spf13/afero"
)

// ReadJSON reads the file at path and parses it as JSON.
// Any I/O or parse failure is logged and reported as (nil, false); one bad
// file never stops the caller. A file holding a literal null parses to
// (nil, true), which callers should also treat as absent.
func ReadJSON(fs afero.Fs, path string) (any, bool) {
	slog.Debug("reading json", "path", path)

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		slog.Warn("failed to read json file", "path", path, "error", err)
		return nil, false
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		slog.Warn("failed to parse json file", "path", path, "error", err)
		return nil, false
	}
	return v, true
}

// IsNullOneLevel reports whether doc is absent or any of its top-level
// values is null.
func IsNullOneLevel(doc map[string]any) bool {
	if doc == nil {
		return true
	}
	for _, v := range doc {
		if v == nil {
			return true
		}
	}
	return false
}
