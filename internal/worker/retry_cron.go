package worker

// retry_cron.go
// Background goroutine that replays dead-lettered e-mail jobs once the SMTP
// circuit breaker is no longer open. Each job gets at most maxReplayRounds
// trips back to the live queue; after that it stays in the DLQ.

import (
	"context"
	"encoding/json"
	"time"

	"stockpro/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	replayTickInterval = 30 * time.Second
	replayBatchSize    = 10
	maxReplayRounds    = 3
)

// ReplayCronConfig holds all dependencies for the replay goroutine.
type ReplayCronConfig struct {
	RDB   *redis.Client
	CB    *infra.CircuitBreaker
	Queue string
}

// StartReplayCron ticks every 30s until ctx is cancelled.
func StartReplayCron(ctx context.Context, cfg ReplayCronConfig) {
	go func() {
		ticker := time.NewTicker(replayTickInterval)
		defer ticker.Stop()

		log.Info().Str("queue", cfg.Queue).Msg("replay_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("replay_cron: shutting down")
				return
			case <-ticker.C:
				replayDLQ(ctx, cfg)
			}
		}
	}()
}

// replayDLQ moves up to replayBatchSize entries back to their queue and
// returns how many were requeued.
func replayDLQ(ctx context.Context, cfg ReplayCronConfig) int {
	// Don't feed jobs to a service we know is down
	if cfg.CB != nil && cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("replay_cron: circuit breaker is open, skipping tick")
		return 0
	}

	key := dlqKey(cfg.Queue)
	requeued := 0
	// Entries are inspected oldest first; exhausted ones are pushed back to
	// the head of the DLQ, so a batch never loops over the same entry.
	for i := 0; i < replayBatchSize; i++ {
		raw, err := cfg.RDB.RPop(ctx, key).Result()
		if err != nil {
			return requeued // redis.Nil: DLQ empty
		}
		var entry DLQEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			log.Error().Err(err).Msg("replay_cron: dropping unreadable DLQ entry")
			continue
		}
		if entry.exhausted() {
			_ = cfg.RDB.LPush(ctx, key, raw).Err()
			continue
		}
		if err := pushJob(ctx, cfg.RDB, cfg.Queue, entry.replay()); err != nil {
			_ = cfg.RDB.RPush(ctx, key, raw).Err()
			log.Error().Err(err).Msg("replay_cron: requeue failed")
			return requeued
		}
		requeued++
	}
	if requeued > 0 {
		log.Info().Int("count", requeued).Str("queue", cfg.Queue).Msg("replay_cron: jobs requeued")
	}
	return requeued
}
