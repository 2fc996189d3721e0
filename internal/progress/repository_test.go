// AngelaMos | 2026
// repository_test.go

package progress

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/arcana-vip/internal/core"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "pgx"), mock
}

var insertIfAbsentSQL = regexp.QuoteMeta(
	"INSERT INTO user_progress (id, user_id, item_id, item_kind, completed, progress_data)",
) + ".*" + regexp.QuoteMeta(
	"ON CONFLICT (user_id, item_id, item_kind) DO NOTHING",
)

func testRecord() *Record {
	return &Record{
		ID:        "0d9f4c1e-1111-4000-8000-000000000001",
		UserID:    "u1",
		ItemID:    "card-1",
		ItemKind:  KindCard,
		Completed: true,
		Data:      []byte(`{"viewedAt":"2024-01-02T03:04:05Z"}`),
	}
}

func TestInsertIfAbsent(t *testing.T) {
	tests := []struct {
		name         string
		rowsAffected int64
		wantInserted bool
	}{
		{name: "first view inserts", rowsAffected: 1, wantInserted: true},
		{name: "existing record is left alone", rowsAffected: 0, wantInserted: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			rec := testRecord()

			mock.ExpectExec(insertIfAbsentSQL).
				WithArgs(rec.ID, "u1", "card-1", KindCard, true, rec.Data).
				WillReturnResult(sqlmock.NewResult(0, tt.rowsAffected))

			inserted, err := NewRepository(db).InsertIfAbsent(context.Background(), rec)
			require.NoError(t, err)
			assert.Equal(t, tt.wantInserted, inserted)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestInsertIfAbsent_Errors(t *testing.T) {
	t.Run("driver failure is a store error", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(insertIfAbsentSQL).
			WillReturnError(&pgconn.PgError{Code: "08006"})

		inserted, err := NewRepository(db).InsertIfAbsent(context.Background(), testRecord())
		assert.False(t, inserted)
		assert.ErrorIs(t, err, core.ErrStore)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rows affected unavailable", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(insertIfAbsentSQL).
			WillReturnResult(sqlmock.NewErrorResult(errors.New("no result")))

		inserted, err := NewRepository(db).InsertIfAbsent(context.Background(), testRecord())
		assert.False(t, inserted)
		assert.Error(t, err)
	})
}

// The tracker treats a conflicting insert as success; only the first of two
// racing views creates the row.
func TestRecordFirstView_ConflictingInsertAgainstStore(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec(insertIfAbsentSQL).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(insertIfAbsentSQL).WillReturnResult(sqlmock.NewResult(0, 0))

	tracker := NewTracker(NewRepository(db), nil, nil, time.Second)
	ctx := context.Background()

	require.NoError(t, tracker.RecordFirstView(ctx, "u1", "card-1", KindCard, nil))
	require.NoError(t, tracker.RecordFirstView(ctx, "u1", "card-1", KindCard, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGet(t *testing.T) {
	columns := []string{
		"id", "user_id", "item_id", "item_kind", "completed", "progress_data", "created_at",
	}
	query := regexp.QuoteMeta(
		"FROM user_progress WHERE user_id = $1 AND item_id = $2 AND item_kind = $3",
	)

	t.Run("found", func(t *testing.T) {
		db, mock := newMockDB(t)
		created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

		mock.ExpectQuery(query).
			WithArgs("u1", "lesson-1", KindLesson).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(
				"p-1", "u1", "lesson-1", "lesson", true, []byte(`{"viewedAt":"x"}`), created,
			))

		rec, err := NewRepository(db).Get(context.Background(), "u1", "lesson-1", KindLesson)
		require.NoError(t, err)
		assert.Equal(t, KindLesson, rec.ItemKind)
		assert.JSONEq(t, `{"viewedAt":"x"}`, string(rec.Data))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(query).WillReturnRows(sqlmock.NewRows(columns))

		_, err := NewRepository(db).Get(context.Background(), "u1", "lesson-1", KindLesson)
		assert.ErrorIs(t, err, core.ErrNotFound)
	})
}
