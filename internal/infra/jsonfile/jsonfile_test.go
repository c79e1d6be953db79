package jsonfile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "records.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadListMissingFile(t *testing.T) {
	items, err := ReadList(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestReadListFlattensNestedLists(t *testing.T) {
	path := writeFile(t, `[{"a":1},[{"b":2},{"c":3},7],"x",{"d":4}]`)

	items, err := ReadList(path)
	require.NoError(t, err)
	require.Len(t, items, 4)
	require.JSONEq(t, `{"b":2}`, string(items[1]))
	require.JSONEq(t, `{"d":4}`, string(items[3]))
}

func TestReadListNotAList(t *testing.T) {
	items, err := ReadList(writeFile(t, `{"load_id":"L1"}`))
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestReadListCorrupt(t *testing.T) {
	_, err := ReadList(writeFile(t, `[{"load_id":`))
	require.Error(t, err)
}

func TestWriteListRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "loads.json")
	records := []map[string]string{{"rate": "₹26/km", "note": "<fragile>"}}

	require.NoError(t, WriteList(path, records))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(data), "₹26/km"))
	require.True(t, strings.Contains(string(data), "<fragile>"))
	require.True(t, strings.Contains(string(data), "\n        \"note\""))

	items, err := ReadList(path)
	require.NoError(t, err)
	require.Len(t, items, 1)

	var got map[string]string
	require.NoError(t, json.Unmarshal(items[0], &got))
	require.Equal(t, records[0], got)
}
