// README: Pure scoring arithmetic and rate text handling.
package scoring

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"loadrec/internal/modules/detour"
)

const (
	urgencyBonus = 2.0
	// fuelDivisor and minuteDivisor turn rupees and minutes into score points.
	fuelDivisor   = 100.0
	minuteDivisor = 60.0

	missingRate = "₹0/km"
)

var (
	ErrUnparsableRate = errors.New("rate is not a number")
	ErrNegativeRate   = errors.New("rate is negative")
)

var rateGlyphs = strings.NewReplacer("â‚¹", "₹", "Rs.", "₹")

// NormalizeRate repairs the mis-encoded rupee sign, maps "Rs." to "₹" and trims.
func NormalizeRate(s string) string {
	return strings.TrimSpace(rateGlyphs.Replace(s))
}

// ParseRate reads "₹26/km"-style text as a per-km amount.
func ParseRate(s string) (float64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(s, "₹", ""), "/km", ""))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrUnparsableRate
	}
	return checkRate(v)
}

func checkRate(v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrUnparsableRate
	}
	if v < 0 {
		return 0, ErrNegativeRate
	}
	return v, nil
}

// ComputeScore blends the per-km rate, urgency and detour penalties. The
// result is rounded to two decimals.
func ComputeScore(rate float64, status string, d detour.Info) Breakdown {
	b := Breakdown{Rate: rate}
	if strings.Contains(strings.ToLower(status), "urgent") {
		b.UrgencyBonus = urgencyBonus
	}
	if d.FuelCost > 0 {
		b.FuelPenalty = d.FuelCost / fuelDivisor
	}
	if d.ExtraMin > 0 {
		b.TimePenalty = d.ExtraMin / minuteDivisor
	}
	raw := b.Rate + b.UrgencyBonus - b.FuelPenalty - b.TimePenalty
	b.Score = roundTo(raw, 2)
	return b
}

// roundTo rounds v as its decimal value reads: 2.675 is stored as 2.67499...
// and gives 2.67; exact binary ties go to even.
func roundTo(v float64, places int) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	if err != nil || r == 0 {
		return 0
	}
	return r
}
