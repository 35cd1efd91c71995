// Package exampleapp wires a minimal, fully-working job (reader, mapper,
// writer) that exercises the engine end to end.
package exampleapp

import (
	"context"
	"fmt"
	"sync"

	"github.com/OguzhanUlucay/easy-batch/pkg/batch/port"
	"github.com/OguzhanUlucay/easy-batch/pkg/batch/record"
	"github.com/OguzhanUlucay/easy-batch/pkg/batch/support/util/exception"
	"github.com/OguzhanUlucay/easy-batch/pkg/batch/support/util/logger"
)

// GreetingConfig configures the greeting job, decoded from the "greeting"
// entry of Config.AdapterConfigs via configbinder.BindProperties.
type GreetingConfig struct {
	Message string `yaml:"message"`
	Count   int    `yaml:"count"`
}

// DefaultGreetingConfig returns the config used when no "greeting" adapter
// entry is present.
func DefaultGreetingConfig() GreetingConfig {
	return GreetingConfig{Message: "Hello, batch!", Count: 5}
}

// greetingReader emits cfg.Count greeting strings, one per record.
type greetingReader struct {
	cfg  GreetingConfig
	mu   sync.Mutex
	next int64
}

func newGreetingReader(cfg GreetingConfig) *greetingReader {
	return &greetingReader{cfg: cfg}
}

func (r *greetingReader) Open(ctx context.Context) error { return nil }

func (r *greetingReader) ReadRecord(ctx context.Context) (port.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.next >= int64(r.cfg.Count) {
		return port.Item{}, exception.ErrNoMoreRecords
	}
	r.next++
	payload := fmt.Sprintf("%s (#%d)", r.cfg.Message, r.next)
	return record.New[any](r.next, "greeting", payload), nil
}

func (r *greetingReader) Close(ctx context.Context) error { return nil }

var _ port.Reader = (*greetingReader)(nil)

// logWriter writes every record to the logger at INFO level.
type logWriter struct{}

func (logWriter) Open(ctx context.Context) error { return nil }

func (logWriter) WriteRecords(ctx context.Context, batch *record.Batch[any]) error {
	for _, item := range batch.Records() {
		logger.Infof("greeting job: %v", item.Payload)
	}
	return nil
}

func (logWriter) Close(ctx context.Context) error { return nil }

var _ port.Writer = logWriter{}

// shout appends "!" to a string payload, to show a processing stage doing
// real transformation work. Non-string payloads pass through unchanged.
func shout(in port.Item) port.Item {
	text, ok := in.Payload.(string)
	if !ok {
		return in
	}
	in.Payload = text + "!"
	return in
}
