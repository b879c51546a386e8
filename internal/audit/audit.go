// Package audit publishes activity events to the Redis queue drained by
// the activity log worker. Recording is best-effort: a failed publish is
// logged and dropped, never surfaced to the request path.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/examhall/examhall-backend/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Event is one activity log entry as queued for persistence.
type Event struct {
	Actor      string    `json:"actor"`
	Action     string    `json:"action"`
	ExamID     string    `json:"exam_id,omitempty"`
	StudentID  int       `json:"student_id,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Recorder queues activity events for the background worker.
type Recorder struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewRecorder creates a Recorder.
func NewRecorder(rdb *redis.Client, log zerolog.Logger) *Recorder {
	return &Recorder{
		rdb: rdb,
		log: log.With().Str("component", "audit").Logger(),
	}
}

// Record queues one event. Never returns an error; audit must not fail
// the operation being audited.
func (r *Recorder) Record(ctx context.Context, ev Event) {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now()
	}

	raw, err := json.Marshal(ev)
	if err != nil {
		r.log.Error().Err(err).Str("action", ev.Action).Msg("Marshal audit event failed")
		return
	}

	if err := r.rdb.RPush(ctx, config.WorkerKey.ActivityLogQueue, raw).Err(); err != nil {
		r.log.Warn().Err(err).Str("action", ev.Action).Msg("Queue audit event failed")
	}
}
