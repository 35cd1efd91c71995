package job

import (
	"context"

	"github.com/OguzhanUlucay/easy-batch/pkg/batch/port"
	"github.com/OguzhanUlucay/easy-batch/pkg/batch/support/util/exception"
)

// compositeProcessor applies an ordered list of port.Processor stages
// left-to-right, threading the output of each into the next. A stage
// returning exception.ErrFiltered short-circuits the remaining stages; the
// record is considered filtered, not an error.
type compositeProcessor struct {
	stages []port.Processor
}

func newCompositeProcessor(stages []port.Processor) *compositeProcessor {
	return &compositeProcessor{stages: append([]port.Processor(nil), stages...)}
}

// process runs in through every stage. It returns (item, false, nil) on
// success, (zero, true, nil) if any stage filtered, or (zero, false, err) if
// a stage returned a non-filter error.
func (c *compositeProcessor) process(ctx context.Context, in port.Item) (port.Item, bool, error) {
	current := in
	for _, stage := range c.stages {
		out, err := stage.Process(ctx, current)
		if err != nil {
			if exception.IsFiltered(err) {
				return port.Item{}, true, nil
			}
			return port.Item{}, false, err
		}
		current = out
	}
	return current, false, nil
}
