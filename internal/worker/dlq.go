package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// DLQPrefix namespaces the dead-letter list of each queue: dlq:{queue}.
const DLQPrefix = "dlq:"

func dlqKey(queue string) string { return DLQPrefix + queue }

// DLQEntry is a job that exhausted its attempts, kept with the last error.
type DLQEntry struct {
	Queue    string    `json:"queue"`
	Job      Job       `json:"job"`
	Reason   string    `json:"reason"`
	Attempts int       `json:"attempts"`
	FailedAt time.Time `json:"failed_at"`
}

// exhausted reports whether another replay would exceed maxReplayRounds.
func (e DLQEntry) exhausted() bool { return e.Job.Rounds+1 >= maxReplayRounds }

// replay is the job as it goes back to its live queue.
func (e DLQEntry) replay() Job {
	j := e.Job
	j.Rounds++
	return j
}

// SendToDLQ parks job on the dead-letter list of queue. Failures are logged
// only: the job is already lost to the live queue at this point.
func SendToDLQ(ctx context.Context, rdb *redis.Client, queue string, job Job, reason string, attempts int) {
	entry := DLQEntry{
		Queue:    queue,
		Job:      job,
		Reason:   reason,
		Attempts: attempts,
		FailedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: marshal entry")
		return
	}
	if err := rdb.LPush(ctx, dlqKey(queue), data).Err(); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: push failed")
		return
	}
	log.Warn().
		Str("queue", queue).
		Str("job_type", job.Type).
		Int("attempts", attempts).
		Int("rounds", job.Rounds).
		Str("reason", reason).
		Msg("dlq: job parked")
}

// DLQLength returns the number of parked jobs for queue, reported by /health.
func DLQLength(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, dlqKey(queue)).Result()
}
