// README: Load store port and the flat JSON file implementation.
package load

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"loadrec/internal/infra/jsonfile"
)

type Store interface {
	List(ctx context.Context) ([]Load, error)
	Append(ctx context.Context, loads ...Load) error
	// Delete removes every record with the given id and reports whether any existed.
	Delete(ctx context.Context, id string) (bool, error)
}

// FileStore keeps all loads in one JSON list on disk. Every write rewrites
// the whole file.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) List(ctx context.Context) ([]Load, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *FileStore) Append(ctx context.Context, loads ...Load) error {
	if len(loads) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.read()
	if err != nil {
		return err
	}
	return jsonfile.WriteList(s.path, append(existing, loads...))
}

func (s *FileStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.read()
	if err != nil {
		return false, err
	}
	kept := make([]Load, 0, len(existing))
	for _, l := range existing {
		if l.LoadID != id {
			kept = append(kept, l)
		}
	}
	if len(kept) == len(existing) {
		return false, nil
	}
	return true, jsonfile.WriteList(s.path, kept)
}

func (s *FileStore) read() ([]Load, error) {
	items, err := jsonfile.ReadList(s.path)
	if err != nil {
		return nil, err
	}
	loads := make([]Load, 0, len(items))
	for i, item := range items {
		var l Load
		if err := json.Unmarshal(item, &l); err != nil {
			log.Warn().Err(err).Int("index", i).Str("path", s.path).Msg("skipping unreadable load record")
			continue
		}
		loads = append(loads, l)
	}
	return loads, nil
}

// ----------------------------------------------------------------------------

var _ Store = (*FileStore)(nil)

func storeErr(op string, err error) error {
	return fmt.Errorf("load store %s: %w", op, err)
}
