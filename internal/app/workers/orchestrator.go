package workers

import (
	"context"
	"francoggm/coffeekiosk-mpesa/internal/app/workers/processors"
	"sync"
)

type Orchestrator struct {
	workers         []*worker
	eventsCh        chan any
	eventsProcessor processors.Processor
	wg              sync.WaitGroup
}

func NewOrchestrator(workersCount int, eventsCh chan any, eventsProcessor processors.Processor) *Orchestrator {
	var workers []*worker
	for id := range max(workersCount, 1) {
		worker := newWorker(id, eventsCh, eventsProcessor)
		workers = append(workers, worker)
	}

	return &Orchestrator{
		workers:         workers,
		eventsCh:        eventsCh,
		eventsProcessor: eventsProcessor,
	}
}

func (o *Orchestrator) StartWorkers(ctx context.Context) {
	for _, worker := range o.workers {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			worker.start(ctx)
		}()
	}
}

// Wait blocks until every worker has returned.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}
