package kvstore

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, db, err := OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return s
}

// Both implementations must honour the same contract.
func stores(t *testing.T) map[string]Store {
	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": openSQLite(t),
	}
}

func TestStore_SetGetOverwrite(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, s.Set(ctx, KeySales, []byte(`[]`)))
			require.NoError(t, s.Set(ctx, KeySales, []byte(`[{"id":"a"}]`)))

			v, err := s.Get(ctx, KeySales)
			require.NoError(t, err)
			assert.Equal(t, `[{"id":"a"}]`, string(v))
		})
	}
}

func TestStore_GetMissingReturnsNilNil(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			v, err := s.Get(context.Background(), "absent")
			require.NoError(t, err)
			assert.Nil(t, v)
		})
	}
}

func TestStore_DeleteListClear(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, s.Set(ctx, "a", []byte{1}))
			require.NoError(t, s.Set(ctx, "b", []byte{2}))
			require.NoError(t, s.Delete(ctx, "a"))
			require.NoError(t, s.Delete(ctx, "a"))

			m, err := s.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, map[string][]byte{"b": {2}}, m)

			require.NoError(t, s.Clear(ctx))
			m, err = s.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, m)
		})
	}
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	in := []byte("abc")
	require.NoError(t, s.Set(ctx, "k", in))
	in[0] = 'x'

	out, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(out))
}

func TestGetJSON_MalformedIsAbsent(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, KeyShown, []byte(`{not json`)))

	var ids []string
	ok, err := GetJSON(ctx, s, KeyShown, &ids)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, ids)
}

func TestSetJSON_RoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, SetJSON(ctx, s, KeyShown, []string{"a", "b"}))

	var ids []string
	ok, err := GetJSON(ctx, s, KeyShown, &ids)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, ids)
}

func TestSQLiteStore_DriverErrorsWrapped(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s := NewSQLiteStore(db)
	ctx := context.Background()
	boom := errors.New("disk I/O error")

	mock.ExpectQuery(`SELECT value FROM kv_store`).WithArgs("k").WillReturnError(boom)
	_, err = s.Get(ctx, "k")
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "get kv[k]")

	mock.ExpectExec(`INSERT INTO kv_store`).WithArgs("k", []byte("v")).WillReturnError(boom)
	err = s.Set(ctx, "k", []byte("v"))
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "set kv[k]")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, _, err := Open(context.Background(), Options{Driver: "bolt"})
	require.ErrorIs(t, err, ErrUnknownDriver)
}

func TestOpen_PostgresRequiresPool(t *testing.T) {
	_, _, err := Open(context.Background(), Options{Driver: DriverPostgres})
	require.Error(t, err)
}
