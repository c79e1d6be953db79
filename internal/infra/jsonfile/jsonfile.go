// README: Flat JSON-file records: read a list (flattening nested lists), overwrite it atomically.
package jsonfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// ReadList returns the JSON objects stored in path. A missing file or a
// top-level value that is not a list yields an empty result. Nested lists
// ([{}, [{}, {}]]) are flattened one level; anything that is not an object is
// skipped.
func ReadList(path string) ([]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn().Str("path", path).Msg("data file not found")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var top json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if kind(top) != '[' {
		log.Warn().Str("path", path).Msg("data file does not contain a list")
		return nil, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(top, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	out := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		switch kind(item) {
		case '{':
			out = append(out, item)
		case '[':
			var sub []json.RawMessage
			if err := json.Unmarshal(item, &sub); err != nil {
				return nil, fmt.Errorf("decode %s: %w", path, err)
			}
			for _, s := range sub {
				if kind(s) != '{' {
					log.Warn().Str("path", path).Msg("skipping non-object item in sublist")
					continue
				}
				out = append(out, s)
			}
		default:
			log.Warn().Str("path", path).Msg("skipping non-object, non-list item")
		}
	}
	return out, nil
}

// WriteList overwrites path with v encoded as an indented JSON document.
// The write goes through a temp file in the same directory and a rename.
func WriteList(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

func kind(raw json.RawMessage) byte {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}
	return raw[0]
}
