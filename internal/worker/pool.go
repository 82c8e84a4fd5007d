package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueReceipt = "jobs:receipt"
	QueueEmail   = "jobs:email"

	jobTypeReceipt = "receipt"
	jobTypeEmail   = "email"

	maxAttempts = 3
)

// Job is the generic envelope for all async tasks. Rounds counts how many
// times the job came back from the dead-letter queue.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
	Rounds  int             `json:"rounds,omitempty"`
}

// Handler processes one job payload. A returned error triggers a retry.
type Handler interface {
	Process(ctx context.Context, raw json.RawMessage) error
}

// ErrPermanent marks failures that retrying cannot fix (bad payload, missing
// sale). Such jobs go straight to the dead-letter queue.
var ErrPermanent = errors.New("permanent job failure")

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueReceipt pushes a receipt job for a committed sale.
func (d *Dispatcher) EnqueueReceipt(ctx context.Context, payload ReceiptJobPayload) error {
	return d.enqueue(ctx, QueueReceipt, jobTypeReceipt, payload)
}

// EnqueueEmail pushes an email job.
func (d *Dispatcher) EnqueueEmail(ctx context.Context, payload EmailJobPayload) error {
	return d.enqueue(ctx, QueueEmail, jobTypeEmail, payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	if d == nil || d.rdb == nil {
		return errors.New("dispatcher: redis not configured")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return pushJob(ctx, d.rdb, queue, Job{Type: jobType, Payload: data})
}

func pushJob(ctx context.Context, rdb *redis.Client, queue string, job Job) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return rdb.LPush(ctx, queue, encoded).Err()
}

// Pool consumes the job queues with a fixed number of goroutines.
type Pool struct {
	rdb      *redis.Client
	handlers map[string]Handler // by queue
	size     int
	backoff  time.Duration
	wg       sync.WaitGroup
}

// NewPool builds a pool; Register handlers before Start.
func NewPool(rdb *redis.Client, size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{rdb: rdb, handlers: make(map[string]Handler), size: size, backoff: time.Second}
}

// Register binds a handler to a queue.
func (p *Pool) Register(queue string, h Handler) { p.handlers[queue] = h }

// Start launches the workers. Each goroutine blocks on BRPOP, zero CPU when idle.
func (p *Pool) Start(ctx context.Context) {
	queues := make([]string, 0, len(p.handlers))
	for q := range p.handlers {
		queues = append(queues, q)
	}
	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go p.run(ctx, i, queues)
	}
	log.Info().Int("workers", p.size).Strs("queues", queues).Msg("worker pool started")
}

// Wait blocks until every worker has returned after ctx cancellation.
func (p *Pool) Wait() { p.wg.Wait() }

func (p *Pool) run(ctx context.Context, id int, queues []string) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop: waits up to 5s then loops to check ctx
			result, err := p.rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
					log.Warn().Err(err).Int("worker", id).Msg("worker: brpop failed")
					time.Sleep(time.Second)
				}
				continue
			}
			if len(result) < 2 {
				continue
			}
			p.process(ctx, result[0], result[1])
		}
	}
}

func (p *Pool) process(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		SendToDLQ(ctx, p.rdb, queue, Job{Type: "unknown", Payload: json.RawMessage(fmt.Sprintf("%q", raw))}, err.Error(), 0)
		return
	}
	h, ok := p.handlers[queue]
	if !ok {
		log.Error().Str("queue", queue).Msg("no handler registered")
		return
	}

	log.Debug().Str("type", job.Type).Str("queue", queue).Msg("processing job")
	attempts, err := withRetry(ctx, maxAttempts, p.backoff, func(int) error {
		return h.Process(ctx, job.Payload)
	})
	if err != nil {
		SendToDLQ(ctx, p.rdb, queue, job, err.Error(), attempts)
	}
}

// withRetry calls fn up to maxAttempts times with exponential backoff
// (base, 2×base, …). Errors wrapping ErrPermanent stop immediately.
// It returns the number of attempts made and the last error.
func withRetry(ctx context.Context, maxAttempts int, base time.Duration, fn func(attempt int) error) (int, error) {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := base * time.Duration(1<<uint(i-1))
			select {
			case <-ctx.Done():
				return i, ctx.Err()
			case <-time.After(wait):
			}
		}
		err := fn(i)
		if err == nil {
			return i + 1, nil
		}
		lastErr = err
		if errors.Is(err, ErrPermanent) {
			return i + 1, err
		}
	}
	return maxAttempts, lastErr
}
