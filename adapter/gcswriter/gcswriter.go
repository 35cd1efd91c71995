// Package gcswriter implements adapter/parquetwriter.Uploader against a
// Google Cloud Storage bucket, grounded on the storage-adapter connection
// pattern (resolve a connection once, reuse it for every Upload), plus a
// BatchWriter that buffers newline-delimited JSON in memory and uploads it
// as one GCS object per job run when the writer is closed.
package gcswriter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/OguzhanUlucay/easy-batch/pkg/batch/port"
	"github.com/OguzhanUlucay/easy-batch/pkg/batch/record"
	"github.com/OguzhanUlucay/easy-batch/pkg/batch/support/util/exception"
)

// Uploader uploads objects into a single GCS bucket.
type Uploader struct {
	client *storage.Client
	bucket string
}

// Open dials a GCS client using the given client options (e.g.
// option.WithCredentialsFile, option.WithEndpoint for a fake server in
// tests) and returns an Uploader bound to bucket.
func Open(ctx context.Context, bucket string, opts ...option.ClientOption) (*Uploader, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcswriter: failed to create storage client: %w", err)
	}
	return &Uploader{client: client, bucket: bucket}, nil
}

// Upload streams data to objectName within the bound bucket, overwriting any
// existing object of that name.
func (u *Uploader) Upload(ctx context.Context, objectName string, data io.Reader, contentType string) error {
	w := u.client.Bucket(u.bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, data); err != nil {
		_ = w.Close()
		return fmt.Errorf("gcswriter: failed to write object %q: %w", objectName, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("gcswriter: failed to finalize object %q: %w", objectName, err)
	}
	return nil
}

// Close releases the underlying client's resources.
func (u *Uploader) Close() error {
	return u.client.Close()
}

// objectUploader is the narrow dependency BatchWriter needs; *Uploader
// satisfies it, and tests supply a fake to avoid a real GCS client.
type objectUploader interface {
	Upload(ctx context.Context, objectName string, data io.Reader, contentType string) error
}

// BatchWriter is a port.Writer that appends every record it's given,
// newline-delimited JSON, to a single in-memory buffer and uploads that
// buffer as one GCS object when the run ends. Unlike adapter/parquetwriter's
// one-file-per-batch Writer, BatchWriter accumulates across every
// WriteRecords call between Open and Close.
type BatchWriter struct {
	uploader      objectUploader
	outputBaseDir string

	objectName string
	buf        *bytes.Buffer
}

// NewBatchWriter creates a BatchWriter that uploads under outputBaseDir via
// uploader.
func NewBatchWriter(uploader objectUploader, outputBaseDir string) *BatchWriter {
	return &BatchWriter{uploader: uploader, outputBaseDir: outputBaseDir}
}

// Open assigns this run's object name and resets the accumulation buffer.
func (w *BatchWriter) Open(ctx context.Context) error {
	w.objectName = filepath.Join(w.outputBaseDir, newObjectName())
	w.buf = new(bytes.Buffer)
	return nil
}

// WriteRecords marshals every record's payload to one JSON line and appends
// it to the run's buffer. Nothing is uploaded until Close.
func (w *BatchWriter) WriteRecords(ctx context.Context, batch *record.Batch[any]) error {
	if batch.IsEmpty() {
		return nil
	}
	for _, item := range batch.Records() {
		line, err := json.Marshal(item.Payload)
		if err != nil {
			return exception.NewBatchError("gcswriter", fmt.Sprintf("failed to marshal record %d to JSON", item.Header.Number), err, false)
		}
		w.buf.Write(line)
		w.buf.WriteByte('\n')
	}
	return nil
}

// Close uploads the accumulated buffer as a single object, if any records
// were written.
func (w *BatchWriter) Close(ctx context.Context) error {
	if w.buf == nil || w.buf.Len() == 0 {
		return nil
	}
	if err := w.uploader.Upload(ctx, w.objectName, w.buf, "application/x-ndjson"); err != nil {
		return exception.NewBatchError("gcswriter", fmt.Sprintf("failed to upload %s", w.objectName), err, false)
	}
	return nil
}

func newObjectName() string {
	return fmt.Sprintf("data_%s.ndjson", strconv.FormatInt(time.Now().UnixNano(), 10))
}

var _ port.Writer = (*BatchWriter)(nil)
