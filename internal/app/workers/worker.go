package workers

import (
	"context"
	"francoggm/coffeekiosk-mpesa/internal/app/workers/processors"
	"log"
)

type worker struct {
	id              int
	eventsCh        chan any
	eventsProcessor processors.Processor
}

func newWorker(id int, eventsCh chan any, eventsProcessor processors.Processor) *worker {
	return &worker{
		id:              id,
		eventsCh:        eventsCh,
		eventsProcessor: eventsProcessor,
	}
}

// start consumes events until ctx is done or the channel is closed. Failed
// events are logged and dropped.
func (w *worker) start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.eventsCh:
			if !ok {
				return
			}

			if err := w.eventsProcessor.ProcessEvent(ctx, event); err != nil {
				log.Printf("Worker %d: error processing event: %v\n", w.id, err)
			}
		}
	}
}
