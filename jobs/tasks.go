package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/atelier-lms/atelier/internal/jobs"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskSessionPurge removes auth sessions past their expiry.
	TaskSessionPurge = "auth:session_purge"
)

// SessionPurger deletes expired session records.
type SessionPurger interface {
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}

// SessionPurgePayload parameterises a purge run.
type SessionPurgePayload struct {
	RequestedAt time.Time `json:"requestedAt"`
}

// NewSessionPurgeTask constructs an Asynq task for session purging.
func NewSessionPurgeTask() (*asynq.Task, error) {
	data, err := json.Marshal(SessionPurgePayload{RequestedAt: time.Now().UTC()})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSessionPurge, data), nil
}

// SessionPurgeJob handles TaskSessionPurge tasks.
type SessionPurgeJob struct {
	purger  SessionPurger
	logger  *slog.Logger
	metrics *jobmetrics.Metrics
}

// NewSessionPurgeJob constructs the job. Metrics may be nil.
func NewSessionPurgeJob(purger SessionPurger, logger *slog.Logger, metrics *jobmetrics.Metrics) *SessionPurgeJob {
	return &SessionPurgeJob{purger: purger, logger: logger, metrics: metrics}
}

// Handle processes a purge task.
func (j *SessionPurgeJob) Handle(ctx context.Context, t *asynq.Task) error {
	tracker := j.metrics.Track("session_purge")
	var payload SessionPurgePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if j.purger == nil {
		return tracker.End(nil)
	}
	removed, err := j.purger.PurgeExpiredSessions(ctx)
	if err != nil {
		if j.logger != nil {
			j.logger.Error("session purge", slog.Any("error", err))
		}
		return tracker.End(err)
	}
	if j.logger != nil {
		j.logger.Info("purged expired sessions",
			slog.Int64("removed", removed),
			slog.Time("requestedAt", payload.RequestedAt))
	}
	return tracker.End(nil)
}
