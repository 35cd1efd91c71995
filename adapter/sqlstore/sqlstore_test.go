package sqlstore_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/OguzhanUlucay/easy-batch/pkg/batch/record"
	"github.com/OguzhanUlucay/easy-batch/pkg/batch/support/util/exception"

	"github.com/OguzhanUlucay/easy-batch/adapter/sqlstore"
)

// setupGormMock opens a gorm.DB backed by a sqlmock connection, following
// the same mysql.New(Conn: sqlDB) wiring used for mocked GORM connections.
func setupGormMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	t.Cleanup(func() {
		mock.ExpectClose()
		sqlDB.Close()
	})

	return gormDB, mock
}

func intMapper(rows *sql.Rows) (any, error) {
	var id int64
	var name string
	if err := rows.Scan(&id, &name); err != nil {
		return nil, err
	}
	return map[string]any{"id": id, "name": name}, nil
}

func TestReader_ReadsUntilExhausted(t *testing.T) {
	gormDB, mock := setupGormMock(t)

	rows := sqlmock.NewRows([]string{"id", "name"}).
		AddRow(int64(1), "alice").
		AddRow(int64(2), "bob")
	mock.ExpectQuery(`SELECT id, name FROM users`).WillReturnRows(rows)

	r := sqlstore.NewReader(gormDB, "users", "SELECT id, name FROM users", nil, intMapper)
	ctx := context.Background()
	require.NoError(t, r.Open(ctx))

	item, err := r.ReadRecord(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), item.Header.Number)
	assert.Equal(t, "users", item.Header.Source)

	item, err = r.ReadRecord(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), item.Header.Number)

	_, err = r.ReadRecord(ctx)
	assert.ErrorIs(t, err, exception.ErrNoMoreRecords)

	require.NoError(t, r.Close(ctx))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReader_QueryFailureIsFatal(t *testing.T) {
	gormDB, mock := setupGormMock(t)

	mock.ExpectQuery(`SELECT id, name FROM users`).WillReturnError(fmt.Errorf("connection refused"))

	r := sqlstore.NewReader(gormDB, "users", "SELECT id, name FROM users", nil, intMapper)
	err := r.Open(context.Background())
	require.Error(t, err)

	var batchErr *exception.BatchError
	require.ErrorAs(t, err, &batchErr)
	assert.True(t, batchErr.IsFatal())
}

func TestWriter_InsertsBatchInOneTransaction(t *testing.T) {
	gormDB, mock := setupGormMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO .*users.*`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO .*users.*`).WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	toRow := func(payload any) (any, error) {
		return payload, nil
	}
	w := sqlstore.NewWriter(gormDB, "users", toRow)

	batch := record.NewBatch[any](2)
	batch.Append(record.New[any](1, "source", map[string]any{"id": 1, "name": "alice"}))
	batch.Append(record.New[any](2, "source", map[string]any{"id": 2, "name": "bob"}))

	require.NoError(t, w.WriteRecords(context.Background(), batch))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWriter_FailureRollsBackTransaction(t *testing.T) {
	gormDB, mock := setupGormMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO .*users.*`).WillReturnError(fmt.Errorf("duplicate key"))
	mock.ExpectRollback()

	toRow := func(payload any) (any, error) {
		return payload, nil
	}
	w := sqlstore.NewWriter(gormDB, "users", toRow)

	batch := record.NewBatch[any](1)
	batch.Append(record.New[any](1, "source", map[string]any{"id": 1, "name": "alice"}))

	err := w.WriteRecords(context.Background(), batch)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
