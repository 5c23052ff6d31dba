package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/taskline/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestUoW(t *testing.T) *db.SQLiteUnitOfWork {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return db.NewSQLiteUnitOfWork(database)
}

func readKey(uow *db.SQLiteUnitOfWork, key string) (string, bool) {
	var val string
	var found bool
	_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := tx.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&val); err != nil {
			return nil
		}
		found = true
		return nil
	})
	return val, found
}

func putKey(ctx context.Context, tx db.DBTX, key, val string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, '2025-04-01T00:00:00Z')`, key, val)
	return err
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	uow := openTestUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return putKey(ctx, tx, "k1", "v1")
	})
	require.NoError(t, err)

	val, found := readKey(uow, "k1")
	assert.True(t, found, "row should exist after commit")
	assert.Equal(t, "v1", val)
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	uow := openTestUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := putKey(ctx, tx, "k2", "v2"); err != nil {
			return err
		}
		return errors.New("deliberate failure")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deliberate failure")

	_, found := readKey(uow, "k2")
	assert.False(t, found, "row should not exist after rollback")
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	uow := openTestUoW(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = putKey(ctx, tx, "k3", "v3")
			panic("boom")
		})
	})

	_, found := readKey(uow, "k3")
	assert.False(t, found, "row should not exist after panic rollback")
}
