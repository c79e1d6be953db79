// README: Reads uploaded .xlsx sheets into header-keyed rows.
package excel

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

var ErrNoSheet = errors.New("workbook has no sheets")

// Row is one data row of the first sheet. Number is the 1-based sheet row,
// so the first data row under the header is 2.
type Row struct {
	Number int
	Values map[string]string
}

// Get returns the trimmed cell under header key, or "".
func (r Row) Get(key string) string {
	return strings.TrimSpace(r.Values[key])
}

func ReadRows(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheet
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = headerKey(h)
	}

	var out []Row
	for i, cells := range rows[1:] {
		if blank(cells) {
			continue
		}
		values := make(map[string]string, len(headers))
		for c, cell := range cells {
			if c >= len(headers) || headers[c] == "" {
				continue
			}
			values[headers[c]] = cell
		}
		out = append(out, Row{Number: i + 2, Values: values})
	}
	return out, nil
}

func headerKey(h string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(h)), " ", "_")
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
