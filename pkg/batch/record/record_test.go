package record_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OguzhanUlucay/easy-batch/pkg/batch/record"
)

func TestNew_SetsHeaderFields(t *testing.T) {
	r := record.New(1, "source-a", "payload")

	assert.Equal(t, int64(1), r.Header.Number)
	assert.Equal(t, "source-a", r.Header.Source)
	assert.False(t, r.Header.ReadAt.IsZero())
	assert.False(t, r.Header.Scanned)
	assert.Equal(t, "payload", r.Payload)
}

func TestWithScanned_ReturnsCopyLeavingOriginalUntouched(t *testing.T) {
	original := record.New(1, "source-a", "payload")

	scanned := original.WithScanned(true)

	assert.True(t, scanned.Header.Scanned)
	assert.False(t, original.Header.Scanned)
}

func TestBatch_AppendAndLen(t *testing.T) {
	b := record.NewBatch[string](0)
	assert.True(t, b.IsEmpty())

	b.Append(record.New(1, "src", "a"))
	b.Append(record.New(2, "src", "b"))

	require.Equal(t, 2, b.Len())
	assert.False(t, b.IsEmpty())
	assert.Equal(t, []string{"a", "b"}, []string{b.Records()[0].Payload, b.Records()[1].Payload})
}

func TestNewBatch_NegativeCapacityHintClampsToZero(t *testing.T) {
	b := record.NewBatch[string](-5)
	assert.Equal(t, 0, b.Len())
	b.Append(record.New(1, "src", "a"))
	assert.Equal(t, 1, b.Len())
}

func TestSingleton_WrapsOneRecord(t *testing.T) {
	r := record.New(7, "src", "only")

	b := record.Singleton(r)

	require.Equal(t, 1, b.Len())
	assert.Equal(t, "only", b.Records()[0].Payload)
	assert.Equal(t, int64(7), b.Records()[0].Header.Number)
}
