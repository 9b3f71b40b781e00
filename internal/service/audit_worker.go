package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/countledger/countledger/internal/domain"
	"github.com/countledger/countledger/internal/metrics"
	"github.com/countledger/countledger/internal/models"
)

// AuditJob represents a single audit event to be recorded.
type AuditJob struct {
	TenantID string
	Event    models.RecordEventRequest
}

// AuditWorker buffers audit events and writes them via a single worker
// goroutine, keeping server-side audit emission off the request path.
type AuditWorker struct {
	recorder domain.Recorder
	log      *logrus.Logger
	jobs     chan *AuditJob
}

// NewAuditWorker creates an AuditWorker with the given queue capacity.
func NewAuditWorker(recorder domain.Recorder, log *logrus.Logger, queueSize int) *AuditWorker {
	if queueSize <= 0 {
		queueSize = 1000
	}
	return &AuditWorker{
		recorder: recorder,
		log:      log,
		jobs:     make(chan *AuditJob, queueSize),
	}
}

// Enqueue adds an audit job. Non-blocking; drops the job if the queue is full.
func (w *AuditWorker) Enqueue(job *AuditJob) {
	select {
	case w.jobs <- job:
		metrics.AuditQueueDepth.Set(float64(len(w.jobs)))
	default:
		metrics.AuditEventsDropped.Inc()
		w.log.WithField("sku", job.Event.SKU).Warn("audit queue full, dropping event")
	}
}

// Run processes audit jobs until the context is cancelled, then drains remaining jobs.
func (w *AuditWorker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.drain()
			return
		case job := <-w.jobs:
			w.process(job)
		}
	}
}

func (w *AuditWorker) drain() {
	for {
		select {
		case job := <-w.jobs:
			w.process(job)
		default:
			return
		}
	}
}

func (w *AuditWorker) process(job *AuditJob) {
	metrics.AuditQueueDepth.Set(float64(len(w.jobs)))

	if _, err := w.recorder.RecordEvent(context.Background(), job.TenantID, &job.Event); err != nil {
		w.log.WithError(err).Warn("audit record failed")
		return
	}

	metrics.AuditEventsRecorded.Inc()
}
