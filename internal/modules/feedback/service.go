package feedback

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var ErrBadRequest = errors.New("truck_id, load_origin, load_destination and action are required")

type RecordCommand struct {
	TruckID         string  `json:"truck_id"`
	LoadOrigin      string  `json:"load_origin"`
	LoadDestination string  `json:"load_destination"`
	AIScore         float64 `json:"ai_score"`
	Action          string  `json:"action"`
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

func (s *Service) Record(ctx context.Context, cmd RecordCommand) (Feedback, error) {
	if strings.TrimSpace(cmd.TruckID) == "" || strings.TrimSpace(cmd.LoadOrigin) == "" ||
		strings.TrimSpace(cmd.LoadDestination) == "" || strings.TrimSpace(cmd.Action) == "" {
		return Feedback{}, ErrBadRequest
	}

	f := Feedback{
		ID:              uuid.New(),
		TruckID:         cmd.TruckID,
		LoadOrigin:      cmd.LoadOrigin,
		LoadDestination: cmd.LoadDestination,
		AIScore:         cmd.AIScore,
		Action:          cmd.Action,
		Timestamp:       s.now().UTC(),
	}
	if err := s.store.Append(ctx, f); err != nil {
		return Feedback{}, err
	}
	log.Info().Str("feedback_id", f.ID.String()).Str("truck_id", f.TruckID).Str("action", f.Action).Msg("feedback recorded")
	return f, nil
}
