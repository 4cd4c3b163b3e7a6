package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ShopBookingService/pkg/dbmetrics"
)

type fakeTx struct {
	committed  bool
	rolledBack bool
	commitErr  error
}

func (f *fakeTx) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (f *fakeTx) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (f *fakeTx) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

func (f *fakeTx) Commit() error {
	f.committed = true
	return f.commitErr
}

func (f *fakeTx) Rollback() error {
	f.rolledBack = true
	return nil
}

type fakeBeginner struct {
	tx    *fakeTx
	opts  *sql.TxOptions
	calls int
	err   error
}

func (f *fakeBeginner) BeginTx(_ context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	f.calls++
	f.opts = opts
	if f.err != nil {
		return nil, f.err
	}
	return f.tx, nil
}

func TestDo_Commit(t *testing.T) {
	b := &fakeBeginner{tx: &fakeTx{}}
	m := NewTransactionManager(b)

	err := m.Do(context.Background(), func(ctx context.Context) error {
		assert.True(t, dbmetrics.IsInTransaction(ctx))
		return nil
	})

	require.NoError(t, err)
	assert.True(t, b.tx.committed)
	assert.False(t, b.tx.rolledBack)
	assert.Equal(t, sql.LevelReadCommitted, b.opts.Isolation)
}

func TestDo_RollbackOnError(t *testing.T) {
	b := &fakeBeginner{tx: &fakeTx{}}
	m := NewTransactionManager(b)
	errBusiness := errors.New("business")

	err := m.Do(context.Background(), func(ctx context.Context) error {
		return errBusiness
	})

	assert.ErrorIs(t, err, errBusiness)
	assert.False(t, b.tx.committed)
	assert.True(t, b.tx.rolledBack)
}

func TestDo_Nested(t *testing.T) {
	b := &fakeBeginner{tx: &fakeTx{}}
	m := NewTransactionManager(b)

	err := m.Do(context.Background(), func(ctx context.Context) error {
		return m.DoReadOnly(ctx, func(ctx context.Context) error {
			return nil
		})
	})

	require.NoError(t, err)
	assert.Equal(t, 1, b.calls)
}

func TestDoReadOnly_Options(t *testing.T) {
	b := &fakeBeginner{tx: &fakeTx{}}
	m := NewTransactionManager(b)

	require.NoError(t, m.DoReadOnly(context.Background(), func(ctx context.Context) error { return nil }))
	assert.True(t, b.opts.ReadOnly)
	assert.Equal(t, sql.LevelRepeatableRead, b.opts.Isolation)
}

func TestDo_BeginError(t *testing.T) {
	b := &fakeBeginner{err: errors.New("conn refused")}
	m := NewTransactionManager(b)

	err := m.Do(context.Background(), func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrBeginTx)
}

func TestDo_CommitError(t *testing.T) {
	b := &fakeBeginner{tx: &fakeTx{commitErr: errors.New("serialization failure")}}
	m := NewTransactionManager(b)

	err := m.Do(context.Background(), func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrCommitTx)
}

func TestAfterCommit(t *testing.T) {
	t.Run("runs after commit of outer tx", func(t *testing.T) {
		b := &fakeBeginner{tx: &fakeTx{}}
		m := NewTransactionManager(b)
		calls := 0

		err := m.Do(context.Background(), func(ctx context.Context) error {
			return m.Do(ctx, func(ctx context.Context) error {
				m.AfterCommit(ctx, func() {
					assert.True(t, b.tx.committed)
					calls++
				})
				assert.Zero(t, calls)
				return nil
			})
		})

		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("skipped on rollback", func(t *testing.T) {
		b := &fakeBeginner{tx: &fakeTx{}}
		m := NewTransactionManager(b)
		calls := 0

		err := m.Do(context.Background(), func(ctx context.Context) error {
			m.AfterCommit(ctx, func() { calls++ })
			return errors.New("business")
		})

		require.Error(t, err)
		assert.Zero(t, calls)
	})

	t.Run("skipped on commit error", func(t *testing.T) {
		b := &fakeBeginner{tx: &fakeTx{commitErr: errors.New("serialization failure")}}
		m := NewTransactionManager(b)
		calls := 0

		err := m.Do(context.Background(), func(ctx context.Context) error {
			m.AfterCommit(ctx, func() { calls++ })
			return nil
		})

		require.ErrorIs(t, err, ErrCommitTx)
		assert.Zero(t, calls)
	})

	t.Run("outside tx runs immediately", func(t *testing.T) {
		m := NewTransactionManager(&fakeBeginner{tx: &fakeTx{}})
		calls := 0

		m.AfterCommit(context.Background(), func() { calls++ })
		assert.Equal(t, 1, calls)
	})
}
