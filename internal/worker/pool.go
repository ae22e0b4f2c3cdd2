package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueBitacora = "jobs:bitacora"
	QueuePDF      = "jobs:pdf"
	QueueAlertas  = "jobs:alertas"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Handler consumes one job payload. A returned error sends the job to the
// dead letter queue; handlers retry internally before giving up.
type Handler interface {
	Process(ctx context.Context, raw json.RawMessage) error
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueBitacora pushes an activity log entry for async persistence.
func (d *Dispatcher) EnqueueBitacora(ctx context.Context, payload interface{}) error {
	return d.enqueue(ctx, QueueBitacora, "bitacora", payload)
}

// EnqueueFacturaPDF pushes an invoice PDF generation job.
func (d *Dispatcher) EnqueueFacturaPDF(ctx context.Context, payload interface{}) error {
	return d.enqueue(ctx, QueuePDF, "factura_pdf", payload)
}

// EnqueueAlertaStock pushes a low stock alert mail job.
func (d *Dispatcher) EnqueueAlertaStock(ctx context.Context, payload interface{}) error {
	return d.enqueue(ctx, QueueAlertas, "alerta_stock", payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// Pool consumes the job queues with a fixed number of goroutines.
// Each queue has exactly one registered handler.
type Pool struct {
	rdb      *redis.Client
	handlers map[string]Handler
	queues   []string
}

func NewPool(rdb *redis.Client) *Pool {
	return &Pool{rdb: rdb, handlers: make(map[string]Handler)}
}

// Register binds a handler to a queue. Must be called before Start.
func (p *Pool) Register(queue string, h Handler) {
	if _, dup := p.handlers[queue]; !dup {
		p.queues = append(p.queues, queue)
	}
	p.handlers[queue] = h
}

// Start launches numWorkers goroutines consuming every registered queue.
// Each goroutine blocks on BRPOP, zero CPU when idle.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go p.runWorker(ctx, i)
	}
	log.Info().Int("workers", numWorkers).Strs("queues", p.queues).Msg("worker pool started")
}

func (p *Pool) runWorker(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop, waits up to 5s then loops to check ctx.
			result, err := p.rdb.BRPop(ctx, 5*time.Second, p.queues...).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			p.processJob(ctx, result[0], result[1])
		}
	}
}

func (p *Pool) processJob(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		SendToDLQ(ctx, p.rdb, queue, "unknown", json.RawMessage(raw), "invalid job envelope", 1)
		return
	}

	h, ok := p.handlers[queue]
	if !ok {
		log.Error().Str("queue", queue).Str("type", job.Type).Msg("no handler registered for queue")
		SendToDLQ(ctx, p.rdb, queue, job.Type, job.Payload, "no handler registered", 1)
		return
	}

	if err := h.Process(ctx, job.Payload); err != nil {
		log.Error().Str("queue", queue).Str("type", job.Type).Err(err).Msg("job failed")
		SendToDLQ(ctx, p.rdb, queue, job.Type, job.Payload, err.Error(), 1)
	}
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
