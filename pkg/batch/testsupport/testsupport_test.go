package testsupport_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OguzhanUlucay/easy-batch/pkg/batch/record"
	"github.com/OguzhanUlucay/easy-batch/pkg/batch/support/util/exception"
	"github.com/OguzhanUlucay/easy-batch/pkg/batch/testsupport"
)

func TestSliceReader_ReadsInOrderThenExhausts(t *testing.T) {
	r := testsupport.NewSliceReader("src", "a", "b")
	require.NoError(t, r.Open(context.Background()))

	first, err := r.ReadRecord(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a", first.Payload)
	assert.Equal(t, int64(1), first.Header.Number)

	second, err := r.ReadRecord(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "b", second.Payload)

	_, err = r.ReadRecord(context.Background())
	assert.ErrorIs(t, err, exception.ErrNoMoreRecords)
}

func TestFailingReader_FailsAfterConfiguredCount(t *testing.T) {
	injected := errors.New("injected read failure")
	inner := testsupport.NewSliceReader("src", "a", "b", "c")
	r := testsupport.NewFailingReader(inner, 1, injected)

	_, err := r.ReadRecord(context.Background())
	require.NoError(t, err)

	_, err = r.ReadRecord(context.Background())
	assert.Same(t, injected, err)
}

func TestRecordingWriter_CapturesBatchesAndFlattensRecords(t *testing.T) {
	w := testsupport.NewRecordingWriter()
	reader := testsupport.NewSliceReader("src", "a", "b")

	r1, _ := reader.ReadRecord(context.Background())
	batch := record.NewBatch[any](1)
	batch.Append(r1)

	require.NoError(t, w.WriteRecords(context.Background(), batch))
	assert.Len(t, w.Batches(), 1)
	assert.Len(t, w.Records(), 1)
	assert.Equal(t, "a", w.Records()[0].Payload)
}
