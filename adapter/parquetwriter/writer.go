// Package parquetwriter provides a port.Writer that buffers a batch into a
// Parquet file in memory and hands it to an Uploader, grounded on the
// Parquet-export writer pattern.
package parquetwriter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/OguzhanUlucay/easy-batch/pkg/batch/port"
	"github.com/OguzhanUlucay/easy-batch/pkg/batch/record"
	"github.com/OguzhanUlucay/easy-batch/pkg/batch/support/util/exception"
	"github.com/OguzhanUlucay/easy-batch/pkg/batch/support/util/logger"
)

// Uploader persists a named object's bytes. adapter/gcswriter implements
// this against cloud.google.com/go/storage; any other object store can
// satisfy it too.
type Uploader interface {
	Upload(ctx context.Context, objectName string, data io.Reader, contentType string) error
}

// RowConverter adapts a record's erased payload to the concrete row type T
// used for Parquet schema reflection.
type RowConverter[T any] func(payload any) (T, error)

// Writer is a port.Writer that converts each batch to a single Parquet file
// and uploads it under outputBaseDir. One file is written per WriteRecords
// call; batches are not accumulated across calls.
type Writer[T any] struct {
	uploader      Uploader
	outputBaseDir string
	compression   parquet.CompressionCodec
	itemPrototype *T
	toRow         RowConverter[T]
}

// NewWriter creates a Writer. itemPrototype is a pointer to a zero-value T
// used by the Parquet library for schema reflection. compressionType is one
// of "SNAPPY", "GZIP", or "NONE" (defaults to "SNAPPY" when empty).
func NewWriter[T any](uploader Uploader, outputBaseDir, compressionType string, itemPrototype *T, toRow RowConverter[T]) (*Writer[T], error) {
	if compressionType == "" {
		compressionType = "SNAPPY"
	}
	codec, err := compressionCodec(compressionType)
	if err != nil {
		return nil, fmt.Errorf("parquetwriter: %w", err)
	}
	return &Writer[T]{
		uploader:      uploader,
		outputBaseDir: outputBaseDir,
		compression:   codec,
		itemPrototype: itemPrototype,
		toRow:         toRow,
	}, nil
}

func (w *Writer[T]) Open(ctx context.Context) error { return nil }

// WriteRecords converts batch to rows, serializes them as one Parquet file,
// and uploads it. An empty batch is a no-op (the engine never calls this
// with one, but it's cheap to guard against).
func (w *Writer[T]) WriteRecords(ctx context.Context, batch *record.Batch[any]) error {
	if batch.IsEmpty() {
		return nil
	}

	rows := make([]T, 0, batch.Len())
	for _, item := range batch.Records() {
		row, err := w.toRow(item.Payload)
		if err != nil {
			return exception.NewBatchError("parquetwriter", fmt.Sprintf("failed to convert record %d to a row", item.Header.Number), err, false)
		}
		rows = append(rows, row)
	}

	buf := new(bytes.Buffer)
	pw, err := writer.NewParquetWriterFromWriter(buf, w.itemPrototype, int64(len(rows)))
	if err != nil {
		return exception.NewBatchError("parquetwriter", "failed to create Parquet writer", err, false)
	}
	pw.CompressionType = w.compression

	for _, row := range rows {
		if err := pw.Write(row); err != nil {
			return exception.NewBatchError("parquetwriter", "failed to write row to Parquet buffer", err, false)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return exception.NewBatchError("parquetwriter", "failed to finalize Parquet file", err, false)
	}

	objectName := filepath.Join(w.outputBaseDir, fileName())
	logger.Debugf("parquetwriter: uploading %d bytes to %s", buf.Len(), objectName)
	if err := w.uploader.Upload(ctx, objectName, buf, "application/octet-stream"); err != nil {
		return exception.NewBatchError("parquetwriter", fmt.Sprintf("failed to upload %s", objectName), err, false)
	}
	return nil
}

func (w *Writer[T]) Close(ctx context.Context) error { return nil }

func fileName() string {
	return fmt.Sprintf("data_%s.parquet", strconv.FormatInt(time.Now().UnixNano(), 10))
}

func compressionCodec(compressionType string) (parquet.CompressionCodec, error) {
	switch strings.ToUpper(compressionType) {
	case "SNAPPY":
		return parquet.CompressionCodec_SNAPPY, nil
	case "GZIP":
		return parquet.CompressionCodec_GZIP, nil
	case "NONE":
		return parquet.CompressionCodec_UNCOMPRESSED, nil
	default:
		return 0, fmt.Errorf("unsupported compression type: %s", compressionType)
	}
}

var _ port.Writer = (*Writer[any])(nil)
