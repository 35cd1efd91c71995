package bridge_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OguzhanUlucay/easy-batch/pkg/batch/bridge"
	"github.com/OguzhanUlucay/easy-batch/pkg/batch/port"
	"github.com/OguzhanUlucay/easy-batch/pkg/batch/record"
	"github.com/OguzhanUlucay/easy-batch/pkg/batch/support/util/exception"
)

func TestWriter_RoutesToFirstMatch(t *testing.T) {
	evens := make(chan port.Item, 10)
	odds := make(chan port.Item, 10)

	w := bridge.NewWriter(
		bridge.Route{Predicate: func(i port.Item) bool { return i.Header.Number%2 == 0 }, Channel: evens},
		bridge.Route{Predicate: func(i port.Item) bool { return true }, Channel: odds},
	)

	batch := record.NewBatch[any](2)
	batch.Append(record.New[any](1, "t", "a"))
	batch.Append(record.New[any](2, "t", "b"))

	require.NoError(t, w.WriteRecords(context.Background(), batch))

	select {
	case item := <-odds:
		assert.EqualValues(t, 1, item.Header.Number)
	default:
		t.Fatal("expected a record on the odds channel")
	}
	select {
	case item := <-evens:
		assert.EqualValues(t, 2, item.Header.Number)
	default:
		t.Fatal("expected a record on the evens channel")
	}
}

func TestWriter_NoMatchIsError(t *testing.T) {
	w := bridge.NewWriter()
	batch := record.NewBatch[any](1)
	batch.Append(record.New[any](1, "t", "a"))

	err := w.WriteRecords(context.Background(), batch)
	assert.Error(t, err)
}

func TestReader_TimesOutToEndOfStream(t *testing.T) {
	ch := make(chan port.Item)
	r, err := bridge.NewReader(ch, 10*time.Millisecond)
	require.NoError(t, err)

	_, err = r.ReadRecord(context.Background())
	assert.True(t, exception.IsNoMoreRecords(err))
}

func TestReader_ReceivesBeforeTimeout(t *testing.T) {
	ch := make(chan port.Item, 1)
	ch <- record.New[any](1, "t", "payload")

	r, err := bridge.NewReader(ch, time.Second)
	require.NoError(t, err)

	item, err := r.ReadRecord(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "payload", item.Payload)
}
