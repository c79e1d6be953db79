// README: Load service: validated adds, bulk spreadsheet import, delete, listing.
package load

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"sync"

	"loadrec/internal/excel"
)

var (
	ErrMissingField  = errors.New("missing field")
	ErrInvalidRate   = errors.New("field 'rate' must be a non-negative number")
	ErrInvalidWeight = errors.New("field 'weight_tons' must be a non-negative number")
	ErrNotFound      = errors.New("load not found")
)

// defaultMaxID is used when no existing id carries a number, so the first
// generated id is L101.
const defaultMaxID = 100

var idPattern = regexp.MustCompile(`^[A-Za-z]*(\d+)`)

type Service struct {
	store Store
	// mu serialises id assignment with the write that uses it.
	mu sync.Mutex
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// AddCommand is the add-load request body. Nil or empty raw fields are
// treated as missing.
type AddCommand struct {
	PickupPoint          *string         `json:"pickup_point"`
	Destination          *string         `json:"destination"`
	Rate                 json.RawMessage `json:"rate"`
	CargoType            *string         `json:"cargo_type"`
	WeightTons           json.RawMessage `json:"weight_tons"`
	ExpectedDeliveryDate *string         `json:"expected_delivery_date"`
	Status               *string         `json:"status"`
}

type Rejection struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

type ImportReport struct {
	Added    []Load      `json:"added"`
	Rejected []Rejection `json:"rejected"`
}

func (s *Service) List(ctx context.Context) ([]Load, error) {
	return s.store.List(ctx)
}

// Recent returns the last n loads in store order.
func (s *Service) Recent(ctx context.Context, n int) ([]Load, error) {
	loads, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if n >= 0 && len(loads) > n {
		loads = loads[len(loads)-n:]
	}
	return loads, nil
}

func (s *Service) Add(ctx context.Context, cmd AddCommand) (Load, error) {
	l, err := build(cmd)
	if err != nil {
		return Load{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.store.List(ctx)
	if err != nil {
		return Load{}, err
	}
	l.LoadID = formatID(maxID(existing) + 1)
	if err := s.store.Append(ctx, l); err != nil {
		return Load{}, err
	}
	return l, nil
}

// Import validates every row like Add. Accepted rows get consecutive ids and
// are written in one append; nothing is written when every row is rejected.
func (s *Service) Import(ctx context.Context, rows []excel.Row) (ImportReport, error) {
	report := ImportReport{Added: []Load{}, Rejected: []Rejection{}}
	var accepted []Load
	for _, row := range rows {
		l, err := build(commandFromRow(row))
		if err != nil {
			report.Rejected = append(report.Rejected, Rejection{Row: row.Number, Reason: err.Error()})
			continue
		}
		accepted = append(accepted, l)
	}
	if len(accepted) == 0 {
		return report, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.store.List(ctx)
	if err != nil {
		return report, err
	}
	next := maxID(existing) + 1
	for i := range accepted {
		accepted[i].LoadID = formatID(next + i)
	}
	if err := s.store.Append(ctx, accepted...); err != nil {
		return report, err
	}
	report.Added = accepted
	return report, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	found, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// ----------------------------------------------------------------------------

func build(cmd AddCommand) (Load, error) {
	switch {
	case cmd.PickupPoint == nil:
		return Load{}, missing("pickup_point")
	case cmd.Destination == nil:
		return Load{}, missing("destination")
	case len(cmd.Rate) == 0:
		return Load{}, missing("rate")
	case cmd.CargoType == nil:
		return Load{}, missing("cargo_type")
	case len(cmd.WeightTons) == 0:
		return Load{}, missing("weight_tons")
	case cmd.ExpectedDeliveryDate == nil:
		return Load{}, missing("expected_delivery_date")
	}

	rate, ok := parseAmount(cmd.Rate)
	if !ok {
		return Load{}, fmt.Errorf("%w, got %s", ErrInvalidRate, cmd.Rate)
	}
	weight, ok := parseAmount(cmd.WeightTons)
	if !ok {
		return Load{}, fmt.Errorf("%w, got %s", ErrInvalidWeight, cmd.WeightTons)
	}

	status := StatusAvailable
	if cmd.Status != nil {
		status = *cmd.Status
	}

	l := Load{
		PickupPoint:          *cmd.PickupPoint,
		Destination:          *cmd.Destination,
		Status:               status,
		CargoType:            *cmd.CargoType,
		ExpectedDeliveryDate: *cmd.ExpectedDeliveryDate,
	}
	l.SetRateText(FormatRate(rate))
	l.WeightTons, _ = json.Marshal(weight)
	return l, nil
}

func missing(field string) error {
	return fmt.Errorf("%w: %s", ErrMissingField, field)
}

// commandFromRow maps a sheet row onto AddCommand; blank cells count as missing.
func commandFromRow(row excel.Row) AddCommand {
	text := func(key string) *string {
		if v := row.Get(key); v != "" {
			return &v
		}
		return nil
	}
	raw := func(key string) json.RawMessage {
		v := row.Get(key)
		if v == "" {
			return nil
		}
		b, _ := json.Marshal(v)
		return b
	}
	return AddCommand{
		PickupPoint:          text("pickup_point"),
		Destination:          text("destination"),
		Rate:                 raw("rate"),
		CargoType:            text("cargo_type"),
		WeightTons:           raw("weight_tons"),
		ExpectedDeliveryDate: text("expected_delivery_date"),
		Status:               text("status"),
	}
}

func maxID(loads []Load) int {
	max, seen := 0, false
	for _, l := range loads {
		m := idPattern.FindStringSubmatch(l.LoadID)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if !seen || n > max {
			max, seen = n, true
		}
	}
	if !seen {
		return defaultMaxID
	}
	return max
}

func formatID(n int) string {
	return "L" + strconv.Itoa(n)
}
