package db

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/parandev-inditech/Somata-UI-sub000/internal/types"
)

type mockDBTX struct {
	mock.Mock
}

func (m *mockDBTX) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	args := m.Called(ctx, sql, arguments)
	return args.Get(0).(pgconn.CommandTag), args.Error(1)
}

func (m *mockDBTX) Query(ctx context.Context, sql string, arguments ...any) (pgx.Rows, error) {
	args := m.Called(ctx, sql, arguments)
	if r := args.Get(0); r != nil {
		return r.(pgx.Rows), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDBTX) QueryRow(ctx context.Context, sql string, arguments ...any) pgx.Row {
	args := m.Called(ctx, sql, arguments)
	return args.Get(0).(pgx.Row)
}

type mockRow struct {
	scanErr error
	scanFn  func(dest ...any) error
}

func (r *mockRow) Scan(dest ...any) error {
	if r.scanFn != nil {
		return r.scanFn(dest...)
	}
	return r.scanErr
}

func testSaved() types.SavedFilters {
	return types.SavedFilters{
		SelectedDateOption:  "prior_week",
		SelectedSignalGroup: "Central Metro",
		SelectedCorridor:    "SR 9",
		AllDayChecked:       true,
	}
}

func TestDefaultsRepository_Save_Success(t *testing.T) {
	db := new(mockDBTX)
	repo := NewDefaultsRepository(db)
	ctx := context.Background()

	db.On("Exec", ctx, mock.AnythingOfType("string"), mock.Anything).
		Return(pgconn.NewCommandTag("INSERT 0 1"), nil)

	err := repo.Save(ctx, "default", testSaved())
	require.NoError(t, err)
	db.AssertExpectations(t)
}

func TestDefaultsRepository_Save_DBError(t *testing.T) {
	db := new(mockDBTX)
	repo := NewDefaultsRepository(db)
	ctx := context.Background()

	db.On("Exec", ctx, mock.AnythingOfType("string"), mock.Anything).
		Return(pgconn.CommandTag{}, errors.New("connection reset"))

	err := repo.Save(ctx, "default", testSaved())

	var appErr *types.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, types.ErrCodeInternalDB, appErr.Code)
}

func TestDefaultsRepository_Load_Success(t *testing.T) {
	db := new(mockDBTX)
	repo := NewDefaultsRepository(db)
	ctx := context.Background()

	payload, err := json.Marshal(testSaved())
	require.NoError(t, err)

	db.On("QueryRow", ctx, mock.AnythingOfType("string"), mock.Anything).
		Return(&mockRow{scanFn: func(dest ...any) error {
			*(dest[0].(*[]byte)) = payload
			return nil
		}})

	saved, found, err := repo.Load(ctx, "default")

	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Central Metro", saved.SelectedSignalGroup)
	assert.Equal(t, "SR 9", saved.SelectedCorridor)
	assert.True(t, saved.AllDayChecked)
}

func TestDefaultsRepository_Load_NotFound(t *testing.T) {
	db := new(mockDBTX)
	repo := NewDefaultsRepository(db)
	ctx := context.Background()

	db.On("QueryRow", ctx, mock.AnythingOfType("string"), mock.Anything).
		Return(&mockRow{scanErr: pgx.ErrNoRows})

	_, found, err := repo.Load(ctx, "nobody")

	require.NoError(t, err)
	assert.False(t, found)
}

func TestDefaultsRepository_Load_DBError(t *testing.T) {
	db := new(mockDBTX)
	repo := NewDefaultsRepository(db)
	ctx := context.Background()

	db.On("QueryRow", ctx, mock.AnythingOfType("string"), mock.Anything).
		Return(&mockRow{scanErr: errors.New("connection reset")})

	_, _, err := repo.Load(ctx, "default")

	var appErr *types.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, types.ErrCodeInternalDB, appErr.Code)
}

func TestDefaultsRepository_Delete_Success(t *testing.T) {
	db := new(mockDBTX)
	repo := NewDefaultsRepository(db)
	ctx := context.Background()

	db.On("Exec", ctx, mock.AnythingOfType("string"), mock.Anything).
		Return(pgconn.NewCommandTag("DELETE 1"), nil)

	require.NoError(t, repo.Delete(ctx, "default"))
	db.AssertExpectations(t)
}

func TestMemoryDefaultsRoundTrip(t *testing.T) {
	store := NewMemoryDefaults()
	ctx := context.Background()

	_, found, err := store.Load(ctx, "default")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Save(ctx, "default", testSaved()))

	saved, found, err := store.Load(ctx, "default")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "SR 9", saved.SelectedCorridor)

	require.NoError(t, store.Delete(ctx, "default"))
	_, found, err = store.Load(ctx, "default")
	require.NoError(t, err)
	assert.False(t, found)
}
