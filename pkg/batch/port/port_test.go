package port_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OguzhanUlucay/easy-batch/pkg/batch/port"
	"github.com/OguzhanUlucay/easy-batch/pkg/batch/record"
	"github.com/OguzhanUlucay/easy-batch/pkg/batch/support/util/exception"
)

func TestNoopReader_ReturnsNoMoreRecordsImmediately(t *testing.T) {
	var r port.Reader = port.NoopReader{}
	require.NoError(t, r.Open(context.Background()))

	_, err := r.ReadRecord(context.Background())
	assert.ErrorIs(t, err, exception.ErrNoMoreRecords)
	assert.NoError(t, r.Close(context.Background()))
}

func TestNoopWriter_DiscardsBatchSilently(t *testing.T) {
	var w port.Writer = port.NoopWriter{}
	require.NoError(t, w.Open(context.Background()))

	batch := record.NewBatch[any](1)
	batch.Append(record.New[any](1, "src", "payload"))

	assert.NoError(t, w.WriteRecords(context.Background(), batch))
	assert.NoError(t, w.Close(context.Background()))
}

func TestProcessorFunc_AdaptsPlainFunction(t *testing.T) {
	var p port.Processor = port.ProcessorFunc(func(ctx context.Context, in port.Item) (port.Item, error) {
		in.Payload = in.Payload.(string) + "-processed"
		return in, nil
	})

	out, err := p.Process(context.Background(), port.Item{Payload: "in"})
	require.NoError(t, err)
	assert.Equal(t, "in-processed", out.Payload)
}
