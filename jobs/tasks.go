package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	jobmetrics "github.com/pressdesk/pressdesk/internal/jobs"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeNotificationDeliver is the task type for delivering a stored notification.
	TaskTypeNotificationDeliver = "notification:deliver"
	// TaskTypeNotificationPurge is the task type for purging old notifications.
	TaskTypeNotificationPurge = "notification:purge"
)

// NotificationDeliverPayload carries the information needed to deliver one
// notification document.
type NotificationDeliverPayload struct {
	ResourceID int64           `json:"resource_id"`
	Subject    string          `json:"subject"`
	Body       json.RawMessage `json:"body"`
}

// NewNotificationDeliverTask constructs an Asynq task.
func NewNotificationDeliverTask(payload NotificationDeliverPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeNotificationDeliver, data), nil
}

// HandleNotificationDeliverTask processes TaskTypeNotificationDeliver tasks.
// Delivery is a log line until an SMTP/webhook channel is configured.
func HandleNotificationDeliverTask(ctx context.Context, t *asynq.Task) error {
	tracker := defaultJobMetrics.Track(TaskTypeNotificationDeliver)
	var payload NotificationDeliverPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return tracker.End(asynq.SkipRetry)
	}
	slog.Default().Info("deliver notification",
		slog.Int64("resource_id", payload.ResourceID),
		slog.String("subject", payload.Subject),
	)
	return tracker.End(nil)
}

// NotificationPurgePayload sets the retention window for the purge task.
type NotificationPurgePayload struct {
	Retention time.Duration `json:"retention"`
}

// NewNotificationPurgeTask constructs the purge task for cron registration.
func NewNotificationPurgeTask(retention time.Duration) (*asynq.Task, error) {
	data, err := json.Marshal(NotificationPurgePayload{Retention: retention})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeNotificationPurge, data), nil
}

// NewNotificationPurgeHandler returns a handler that deletes notification
// documents older than the retention window.
func NewNotificationPurgeHandler(pool *pgxpool.Pool, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		tracker := defaultJobMetrics.Track(TaskTypeNotificationPurge)
		var payload NotificationPurgePayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return tracker.End(asynq.SkipRetry)
		}
		if payload.Retention <= 0 {
			return tracker.End(asynq.SkipRetry)
		}
		cutoff := time.Now().Add(-payload.Retention)
		tag, err := pool.Exec(ctx, `DELETE FROM resources WHERE kind = 'notifications' AND created_at < $1`, cutoff)
		if err != nil {
			return tracker.End(err)
		}
		if logger != nil {
			logger.Info("purged notifications", slog.Int64("deleted", tag.RowsAffected()))
		}
		return tracker.End(nil)
	}
}
