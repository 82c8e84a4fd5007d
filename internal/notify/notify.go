// Package notify carries user-facing outcome messages (toasts) produced by the
// sale workflows and the cart builder.
package notify

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Severity of a notification as rendered by the dashboard.
type Severity string

const (
	SeverityNormal      Severity = "normal"
	SeverityDestructive Severity = "destructive"
)

// Channel is the Redis pub/sub channel notifications are published on.
const Channel = "notifications"

// Notification is a titled, described outcome shown to the user.
type Notification struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}

// Success builds a normal-severity notification.
func Success(title, description string) Notification {
	return Notification{Title: title, Description: description, Severity: SeverityNormal}
}

// Failure builds a destructive notification.
func Failure(title, description string) Notification {
	return Notification{Title: title, Description: description, Severity: SeverityDestructive}
}

// Notifier delivers notifications. Delivery is best effort.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// RedisNotifier logs every notification and publishes it on Channel so
// connected dashboards can render it.
type RedisNotifier struct {
	rdb *redis.Client
}

func NewRedisNotifier(rdb *redis.Client) *RedisNotifier {
	return &RedisNotifier{rdb: rdb}
}

func (n *RedisNotifier) Notify(ctx context.Context, notif Notification) {
	ev := log.Info()
	if notif.Severity == SeverityDestructive {
		ev = log.Warn()
	}
	ev.Str("title", notif.Title).Str("severity", string(notif.Severity)).Msg(notif.Description)

	if n.rdb == nil {
		return
	}
	data, err := json.Marshal(notif)
	if err != nil {
		return
	}
	if err := n.rdb.Publish(ctx, Channel, data).Err(); err != nil {
		log.Warn().Err(err).Msg("notify: publish failed")
	}
}

// Recorder keeps notifications in memory. Used by tests.
type Recorder struct {
	mu   sync.Mutex
	sent []Notification
}

func (r *Recorder) Notify(_ context.Context, n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

// All returns a copy of the recorded notifications.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.sent))
	copy(out, r.sent)
	return out
}

// Last returns the most recent notification, or the zero value.
func (r *Recorder) Last() Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sent) == 0 {
		return Notification{}
	}
	return r.sent[len(r.sent)-1]
}
