package load

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"loadrec/internal/infra"
)

// setupPGStore skips unless LOADREC_TEST_DSN points at a disposable database.
func setupPGStore(t *testing.T) *PGStore {
	t.Helper()
	dsn := os.Getenv("LOADREC_TEST_DSN")
	if dsn == "" {
		t.Skip("LOADREC_TEST_DSN not set; skipping DB-backed tests")
	}

	root, err := repoRoot()
	require.NoError(t, err)
	require.NoError(t, infra.Migrate("file://"+filepath.Join(root, "migrations"), dsn))

	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	_, err = db.Exec(ctx, "TRUNCATE TABLE loads")
	require.NoError(t, err)
	return NewPGStore(db)
}

func repoRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for i := 0; i < 6; i++ {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

func TestPGStoreRoundTrip(t *testing.T) {
	store := setupPGStore(t)
	ctx := context.Background()

	var a, b Load
	require.NoError(t, json.Unmarshal([]byte(`{"load_id":"L1","pickup_point":"Pune","rate":"₹26/km","weight_tons":12,"broker":"Ravi"}`), &a))
	require.NoError(t, json.Unmarshal([]byte(`{"load_id":"L2","origin":"Delhi","rate":31}`), &b))
	require.NoError(t, store.Append(ctx, a, b))

	got, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "L1", got[0].LoadID)
	require.JSONEq(t, `"Ravi"`, string(got[0].Extra["broker"]))
	w, ok := got[0].Weight()
	require.True(t, ok)
	require.Equal(t, 12.0, w)

	svc := NewService(store)
	added, err := svc.Add(ctx, validCommand())
	require.NoError(t, err)
	require.Equal(t, "L3", added.LoadID)

	require.NoError(t, svc.Delete(ctx, "L1"))
	require.ErrorIs(t, svc.Delete(ctx, "L1"), ErrNotFound)

	got, err = store.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
}
