// README: Load store backed by PostgreSQL; each record kept whole as JSONB.
package load

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) List(ctx context.Context) ([]Load, error) {
	rows, err := s.db.Query(ctx, `SELECT payload FROM loads ORDER BY seq`)
	if err != nil {
		return nil, storeErr("list", err)
	}
	defer rows.Close()

	var loads []Load
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, storeErr("list", err)
		}
		var l Load
		if err := json.Unmarshal(payload, &l); err != nil {
			return nil, storeErr("decode", err)
		}
		loads = append(loads, l)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list", err)
	}
	return loads, nil
}

func (s *PGStore) Append(ctx context.Context, loads ...Load) error {
	if len(loads) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, l := range loads {
		payload, err := json.Marshal(l)
		if err != nil {
			return storeErr("encode", err)
		}
		batch.Queue(`INSERT INTO loads (load_id, payload) VALUES ($1, $2)`, l.LoadID, json.RawMessage(payload))
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return storeErr("append", err)
	}
	defer tx.Rollback(ctx)

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return storeErr("append", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return storeErr("append", err)
	}
	return nil
}

func (s *PGStore) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM loads WHERE load_id = $1`, id)
	if err != nil {
		return false, storeErr("delete", err)
	}
	return tag.RowsAffected() > 0, nil
}

var _ Store = (*PGStore)(nil)
