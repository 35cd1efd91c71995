package sqlstore

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/OguzhanUlucay/easy-batch/pkg/batch/port"
	"github.com/OguzhanUlucay/easy-batch/pkg/batch/record"
	"github.com/OguzhanUlucay/easy-batch/pkg/batch/support/util/exception"
)

// RowConverter converts a record payload into the row shape GORM inserts
// (typically a pointer to a model struct or a map[string]interface{}).
type RowConverter func(payload any) (any, error)

// Writer is a port.Writer that inserts a batch into a table within a single
// transaction, so a batch is either fully committed or fully rolled back.
type Writer struct {
	db        *gorm.DB
	table     string
	toRow     RowConverter
}

// NewWriter creates a Writer inserting into table, converting each record's
// payload to a row with toRow.
func NewWriter(db *gorm.DB, table string, toRow RowConverter) *Writer {
	return &Writer{db: db, table: table, toRow: toRow}
}

func (w *Writer) Open(ctx context.Context) error { return nil }

// WriteRecords inserts every record of batch inside one transaction.
func (w *Writer) WriteRecords(ctx context.Context, batch *record.Batch[any]) error {
	return w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range batch.Records() {
			row, err := w.toRow(item.Payload)
			if err != nil {
				return exception.NewBatchError("writer", fmt.Sprintf("failed to convert record %d to a row", item.Header.Number), err, false)
			}
			if err := tx.Table(w.table).Create(row).Error; err != nil {
				return exception.NewBatchError("writer", fmt.Sprintf("failed to insert record %d", item.Header.Number), err, false)
			}
		}
		return nil
	})
}

func (w *Writer) Close(ctx context.Context) error { return nil }

var _ port.Writer = (*Writer)(nil)
