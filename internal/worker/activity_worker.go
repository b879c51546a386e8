package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/examhall/examhall-backend/internal/audit"
	"github.com/examhall/examhall-backend/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	ActivityBatchSize    = 100
	ActivityBatchTimeout = 2 * time.Second
	ActivityPollTimeout  = 1 * time.Second
)

// ActivityWorker drains the audit event queue and persists events to the
// activity_logs table in batches.
type ActivityWorker struct {
	pool *pgxpool.Pool
	rdb  *redis.Client
	log  zerolog.Logger
}

func NewActivityWorker(pool *pgxpool.Pool, rdb *redis.Client, log zerolog.Logger) *ActivityWorker {
	return &ActivityWorker{
		pool: pool,
		rdb:  rdb,
		log:  log.With().Str("component", "activity_worker").Logger(),
	}
}

// ----------------------------------------------------------------
// Worker loop with batching
// ----------------------------------------------------------------

func (w *ActivityWorker) Start(ctx context.Context) {
	w.log.Info().Msg("ActivityWorker started")

	batch := make([]*audit.Event, 0, ActivityBatchSize)
	lastFlush := time.Now()

	for {
		if len(batch) > 0 &&
			(len(batch) >= ActivityBatchSize || time.Since(lastFlush) >= ActivityBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, ActivityPollTimeout, config.WorkerKey.ActivityLogQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var ev audit.Event
			if err := json.Unmarshal([]byte(item[1]), &ev); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			batch = append(batch, &ev)
		}
	}
}

// ----------------------------------------------------------------
// Batch insert wrapper
// ----------------------------------------------------------------

func (w *ActivityWorker) flushSafe(ctx context.Context, batch []*audit.Event) {
	if len(batch) == 0 {
		return
	}

	if err := w.bulkInsert(ctx, batch); err != nil {
		w.log.Warn().Err(err).Msg("bulk activity insert failed, using fallback")

		for _, ev := range batch {
			if err := w.insertSingle(ctx, ev); err != nil {
				w.log.Error().Err(err).Msg("insertSingle failed, requeueing")
				raw, _ := json.Marshal(ev)
				w.rdb.RPush(ctx, config.WorkerKey.ActivityLogQueue, raw)
			}
		}
	}
}

// ----------------------------------------------------------------
// BULK PostgreSQL INSERT using UNNEST
// ----------------------------------------------------------------

func (w *ActivityWorker) bulkInsert(ctx context.Context, batch []*audit.Event) error {
	n := len(batch)

	actors := make([]string, 0, n)
	actions := make([]string, 0, n)
	examIDs := make([]*string, 0, n)
	studentIDs := make([]*int, 0, n)
	details := make([]string, 0, n)
	occurredAts := make([]time.Time, 0, n)

	for _, ev := range batch {
		actors = append(actors, ev.Actor)
		actions = append(actions, ev.Action)

		var examID *string
		if ev.ExamID != "" {
			id := ev.ExamID
			examID = &id
		}
		examIDs = append(examIDs, examID)

		var studentID *int
		if ev.StudentID != 0 {
			id := ev.StudentID
			studentID = &id
		}
		studentIDs = append(studentIDs, studentID)

		details = append(details, ev.Detail)
		occurredAts = append(occurredAts, ev.OccurredAt)
	}

	query := `
		INSERT INTO activity_logs (actor, action, exam_id, student_id, detail, occurred_at)
		SELECT u.actor, u.action, u.exam_id, u.student_id, u.detail, u.occurred_at
		FROM UNNEST(
			$1::text[],
			$2::text[],
			$3::uuid[],
			$4::int[],
			$5::text[],
			$6::timestamptz[]
		) AS u (actor, action, exam_id, student_id, detail, occurred_at)
	`

	_, err := w.pool.Exec(ctx, query, actors, actions, examIDs, studentIDs, details, occurredAts)
	return err
}

// ----------------------------------------------------------------
// FALLBACK single insert
// ----------------------------------------------------------------

func (w *ActivityWorker) insertSingle(ctx context.Context, ev *audit.Event) error {
	var examID *string
	if ev.ExamID != "" {
		examID = &ev.ExamID
	}
	var studentID *int
	if ev.StudentID != 0 {
		studentID = &ev.StudentID
	}

	_, err := w.pool.Exec(ctx,
		`INSERT INTO activity_logs (actor, action, exam_id, student_id, detail, occurred_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		ev.Actor, ev.Action, examID, studentID, ev.Detail, ev.OccurredAt,
	)
	return err
}
