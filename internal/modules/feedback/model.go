// README: Driver feedback on a recommendation (accepted, rejected, ...).
package feedback

import (
	"time"

	"github.com/google/uuid"
)

type Feedback struct {
	ID              uuid.UUID `json:"id"`
	TruckID         string    `json:"truck_id"`
	LoadOrigin      string    `json:"load_origin"`
	LoadDestination string    `json:"load_destination"`
	AIScore         float64   `json:"ai_score"`
	Action          string    `json:"action"`
	Timestamp       time.Time `json:"timestamp"`
}
