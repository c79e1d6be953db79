// README: Parsing and formatting of user-entered rate and weight values.
package load

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// FormatRate renders a per-km rate the way stored loads carry it:
// "₹26/km" for whole numbers, "₹28.50/km" otherwise.
func FormatRate(v float64) string {
	if v == math.Trunc(v) {
		return "₹" + strconv.FormatFloat(v, 'f', 0, 64) + "/km"
	}
	return "₹" + strconv.FormatFloat(v, 'f', 2, 64) + "/km"
}

// parseAmount reads a plain number given either as a JSON number or as a
// numeric string. Negative, NaN and infinite values are rejected.
func parseAmount(raw json.RawMessage) (float64, bool) {
	v, ok := numberValue(raw)
	if !ok {
		s, isText := stringValue(raw)
		if !isText {
			return 0, false
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, false
		}
		v = f
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return v, true
}
