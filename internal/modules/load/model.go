// README: Load record as stored and scored; loosely typed rate/weight, unknown keys preserved.
package load

import (
	"bytes"
	"encoding/json"
)

const StatusAvailable = "available"

// Load is one freight load. Records come from hand-edited files and
// spreadsheets, so Rate and WeightTons keep their raw JSON (text, number or
// anything else) and unknown keys ride along in Extra.
type Load struct {
	LoadID               string
	PickupPoint          string
	Origin               string
	Destination          string
	Status               string
	CargoType            string
	ExpectedDeliveryDate string
	Rate                 json.RawMessage
	WeightTons           json.RawMessage
	Extra                map[string]json.RawMessage

	// read holds the raw JSON of the known text fields as decoded, so
	// untouched values are written back byte for byte.
	read map[string]json.RawMessage
}

// Pickup is pickup_point, falling back to origin.
func (l Load) Pickup() string {
	if l.PickupPoint != "" {
		return l.PickupPoint
	}
	return l.Origin
}

// Weight reports weight_tons when it is a JSON number.
func (l Load) Weight() (float64, bool) {
	return numberValue(l.WeightTons)
}

// RateText reports rate when it is a JSON string.
func (l Load) RateText() (string, bool) {
	return stringValue(l.Rate)
}

// RateNumber reports rate when it is a bare JSON number.
func (l Load) RateNumber() (float64, bool) {
	return numberValue(l.Rate)
}

// SetRateText replaces rate with a JSON string.
func (l *Load) SetRateText(s string) {
	raw, _ := json.Marshal(s)
	l.Rate = raw
}

// Clone returns a deep copy; mutating it never touches l.
func (l Load) Clone() Load {
	c := l
	c.Rate = bytes.Clone(l.Rate)
	c.WeightTons = bytes.Clone(l.WeightTons)
	if l.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(l.Extra))
		for k, v := range l.Extra {
			c.Extra[k] = bytes.Clone(v)
		}
	}
	if l.read != nil {
		c.read = make(map[string]json.RawMessage, len(l.read))
		for k, v := range l.read {
			c.read[k] = bytes.Clone(v)
		}
	}
	return c
}

func (l *Load) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*l = Load{}
	for k, v := range fields {
		var text *string
		switch k {
		case "load_id":
			text = &l.LoadID
		case "pickup_point":
			text = &l.PickupPoint
		case "origin":
			text = &l.Origin
		case "destination":
			text = &l.Destination
		case "status":
			text = &l.Status
		case "cargo_type":
			text = &l.CargoType
		case "expected_delivery_date":
			text = &l.ExpectedDeliveryDate
		}
		if text != nil {
			*text = textValue(v)
			if l.read == nil {
				l.read = make(map[string]json.RawMessage)
			}
			l.read[k] = v
			continue
		}

		switch k {
		case "rate":
			l.Rate = v
		case "weight_tons":
			l.WeightTons = v
		default:
			if l.Extra == nil {
				l.Extra = make(map[string]json.RawMessage)
			}
			l.Extra[k] = v
		}
	}
	return nil
}

func (l Load) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(l.Extra)+9)
	for k, v := range l.Extra {
		out[k] = v
	}
	l.putText(out, "load_id", l.LoadID)
	l.putText(out, "pickup_point", l.PickupPoint)
	l.putText(out, "origin", l.Origin)
	l.putText(out, "destination", l.Destination)
	l.putText(out, "status", l.Status)
	l.putText(out, "cargo_type", l.CargoType)
	l.putText(out, "expected_delivery_date", l.ExpectedDeliveryDate)
	if len(l.Rate) > 0 {
		out["rate"] = l.Rate
	}
	if len(l.WeightTons) > 0 {
		out["weight_tons"] = l.WeightTons
	}
	return json.Marshal(out)
}

// putText writes the value as it was read when it still reads the same
// (numbers, "" and null survive), else as a string; new empty values are omitted.
func (l Load) putText(m map[string]any, key, v string) {
	if raw, ok := l.read[key]; ok && textValue(raw) == v {
		m[key] = raw
		return
	}
	if v != "" {
		m[key] = v
	}
}

// textValue accepts strings and bare numbers; anything else reads as empty.
func textValue(raw json.RawMessage) string {
	if s, ok := stringValue(raw); ok {
		return s
	}
	if _, ok := numberValue(raw); ok {
		return string(bytes.TrimSpace(raw))
	}
	return ""
}

func stringValue(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func numberValue(raw json.RawMessage) (float64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || (raw[0] != '-' && (raw[0] < '0' || raw[0] > '9')) {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, false
	}
	return f, true
}
