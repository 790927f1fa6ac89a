package dbx

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:dbxtest?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS state (key TEXT PRIMARY KEY, value TEXT);`)
	require.NoError(t, err)
	_, err = db.Exec(`DELETE FROM state;`)
	require.NoError(t, err)
	return db
}

func stateValue(t *testing.T, db *sql.DB, key string) (string, bool) {
	t.Helper()
	var v string
	err := db.QueryRow(`SELECT value FROM state WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false
	}
	require.NoError(t, err)
	return v, true
}

func TestWithTx_CommitsOnSuccess(t *testing.T) {
	db := setupDB(t)

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO state(key, value) VALUES ('last_user', '{"id":"42"}')`)
		return err
	})
	require.NoError(t, err)

	got, ok := stateValue(t, db, "last_user")
	require.True(t, ok, "committed row must be visible outside the transaction")
	require.Equal(t, `{"id":"42"}`, got)
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	db := setupDB(t)

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		_, e := tx.ExecContext(ctx, `INSERT INTO state(key, value) VALUES ('last_user', 'partial')`)
		require.NoError(t, e)
		return errors.New("save aborted")
	})
	require.Error(t, err)

	_, ok := stateValue(t, db, "last_user")
	require.False(t, ok, "nothing written by a failed fn may remain")
}

func TestWithTx_RollsBackOnPanicAndRethrows(t *testing.T) {
	db := setupDB(t)

	defer func() {
		r := recover()
		require.NotNil(t, r, "the panic must reach the caller")
		_, ok := stateValue(t, db, "last_user")
		require.False(t, ok, "nothing written before the panic may remain")
	}()

	_ = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		_, e := tx.ExecContext(ctx, `INSERT INTO state(key, value) VALUES ('last_user', 'doomed')`)
		require.NoError(t, e)
		panic("mid-save failure")
	})
}

func TestWithTx_SeesOwnWrites(t *testing.T) {
	db := setupDB(t)

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO state(key, value) VALUES ('tasks_changed_at', 't0')`); err != nil {
			return err
		}
		var v string
		if err := tx.QueryRowContext(ctx, `SELECT value FROM state WHERE key = 'tasks_changed_at'`).Scan(&v); err != nil {
			return err
		}
		require.Equal(t, "t0", v)
		return nil
	})
	require.NoError(t, err)
}

func TestWithTx_BeginFailure(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, db.Close())

	called := false
	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		called = true
		return nil
	})
	require.Error(t, err)
	require.False(t, called, "fn must not run without a transaction")
}
