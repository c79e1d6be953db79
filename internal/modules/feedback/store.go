// README: Feedback stores: append-only JSON file and PostgreSQL.
package feedback

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"loadrec/internal/infra/jsonfile"
)

type Store interface {
	Append(ctx context.Context, f Feedback) error
}

// FileStore keeps the feedback log as one JSON list. Entries already in the
// file are carried over untouched.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Append(ctx context.Context, f Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := jsonfile.ReadList(s.path)
	if err != nil {
		return fmt.Errorf("feedback store: %w", err)
	}
	entry, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("feedback store: encode: %w", err)
	}
	return jsonfile.WriteList(s.path, append(existing, entry))
}

type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Append(ctx context.Context, f Feedback) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO feedback (id, truck_id, load_origin, load_destination, ai_score, action, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		f.ID, f.TruckID, f.LoadOrigin, f.LoadDestination, f.AIScore, f.Action, f.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("feedback store: insert: %w", err)
	}
	return nil
}

var (
	_ Store = (*FileStore)(nil)
	_ Store = (*PGStore)(nil)
)
