package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"gorm.io/gorm"

	"github.com/OguzhanUlucay/easy-batch/pkg/batch/port"
	"github.com/OguzhanUlucay/easy-batch/pkg/batch/record"
	"github.com/OguzhanUlucay/easy-batch/pkg/batch/support/util/exception"
	"github.com/OguzhanUlucay/easy-batch/pkg/batch/support/util/logger"
)

// RowMapper maps one result row to a record payload.
type RowMapper func(rows *sql.Rows) (any, error)

// Reader is a cursor-based port.Reader over a SQL query's result set: it
// opens the query once in Open and streams rows one at a time from
// ReadRecord, grounded on the cursor-reader pattern of reading a *sql.Rows
// until exhaustion.
type Reader struct {
	db     *gorm.DB
	query  string
	args   []any
	mapper RowMapper

	source string
	rows   *sql.Rows
	count  int64
}

// NewReader creates a Reader that runs query (with args) against db and maps
// each row with mapper. source is recorded as every emitted record's
// Header.Source.
func NewReader(db *gorm.DB, source, query string, args []any, mapper RowMapper) *Reader {
	return &Reader{db: db, query: query, args: args, mapper: mapper, source: source}
}

// Open executes the query and holds its cursor open.
func (r *Reader) Open(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return exception.NewBatchError("reader", "failed to obtain *sql.DB from gorm.DB", err, true)
	}

	rows, err := sqlDB.QueryContext(ctx, r.query, r.args...)
	if err != nil {
		return exception.NewBatchError("reader", fmt.Sprintf("failed to execute query: %s", r.query), err, true)
	}
	r.rows = rows
	return nil
}

// ReadRecord advances the cursor and maps the next row, or returns
// exception.ErrNoMoreRecords once the result set is exhausted.
func (r *Reader) ReadRecord(ctx context.Context) (port.Item, error) {
	if r.rows == nil {
		return port.Item{}, exception.NewBatchError("reader", "ReadRecord called before Open or after Close", nil, true)
	}

	if !r.rows.Next() {
		if err := r.rows.Err(); err != nil {
			return port.Item{}, exception.NewBatchError("reader", "row iteration failed", err, true)
		}
		return port.Item{}, exception.ErrNoMoreRecords
	}

	payload, err := r.mapper(r.rows)
	if err != nil {
		return port.Item{}, exception.NewBatchError("reader", "row mapping failed", err, true)
	}

	r.count++
	return record.New(r.count, r.source, payload), nil
}

// Close releases the cursor. Safe to call more than once.
func (r *Reader) Close(ctx context.Context) error {
	if r.rows == nil {
		return nil
	}
	err := r.rows.Close()
	r.rows = nil
	if err != nil {
		logger.Warnf("sqlstore reader: failed to close rows: %v", err)
		return err
	}
	return nil
}

var _ port.Reader = (*Reader)(nil)
