package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/api/metrics"
	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/core/domain"
	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes engagement events to a fixed set of workers using
// consistent hashing on the post id, guaranteeing per-post event ordering.
type Dispatcher struct {
	workers []chan domain.EngagementEvent
	service ports.EngagementService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.EngagementService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.EngagementEvent, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.EngagementEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends an event to the worker responsible for its post. The call is
// non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(event domain.EngagementEvent) {
	i := d.shardIndex(event.PostID)
	d.workers[i] <- event
	metrics.EngagementQueueDepth.WithLabelValues(strconv.Itoa(i)).Set(float64(len(d.workers[i])))
}

// shardIndex maps a post id deterministically to a worker index.
func (d *Dispatcher) shardIndex(postID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(postID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.EngagementEvent) {
	workerID := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			metrics.EngagementQueueDepth.WithLabelValues(workerID).Set(float64(len(ch)))

			start := time.Now()
			if err := d.service.Process(ctx, event); err != nil {
				metrics.EngagementErrorsTotal.WithLabelValues(string(event.Kind)).Inc()
				d.log.Error().Err(err).
					Str("post_id", event.PostID).
					Int("worker_id", id).
					Msg("engagement event processing failed")
				continue
			}
			metrics.EngagementEventsTotal.WithLabelValues(string(event.Kind)).Inc()
			metrics.EngagementProcessingDuration.WithLabelValues(string(event.Kind)).Observe(time.Since(start).Seconds())
		}
	}
}
