package aiusage

import (
	"errors"
	"time"
)

// ErrInsufficientTokens is returned when a caller has no tokens remaining for the current month.
var ErrInsufficientTokens = errors.New("insufficient tokens")

// DefaultTokens is the number of tokens granted per month.
const DefaultTokens = 100

// usageTTL outlives the longest month so a counter never expires mid-month.
const usageTTL = 32 * 24 * time.Hour

// Unlimited is reported as the remaining allowance when no quota store is configured.
const Unlimited = -1
