package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"

	"carelink/models"
)

const TypeReconcileAppointment = "appointment:reconcile"

// NewReconcileTask builds the repair task for a partially failed booking. The
// task id is derived from the appointment id so one booking queues at most one
// repair.
func NewReconcileTask(payload models.ReconcilePayload, maxRetry int) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeReconcileAppointment, b)
	opts := []asynq.Option{
		asynq.TaskID(ReconcileTaskID(payload.Appointment.ID)),
		asynq.MaxRetry(maxRetry),
	}

	return task, opts, nil
}

func ReconcileTaskID(appointmentID string) string {
	return "reconcile:" + appointmentID
}

// taskClient is the subset of *asynq.Client the enqueuer uses.
type taskClient interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ReconcileEnqueuer queues appointment repairs on asynq.
type ReconcileEnqueuer struct {
	client   taskClient
	maxRetry int
}

func NewReconcileEnqueuer(client *asynq.Client, maxRetry int) *ReconcileEnqueuer {
	return &ReconcileEnqueuer{client: client, maxRetry: maxRetry}
}

// EnqueueReconcile treats an already queued repair for the same appointment as success.
func (e *ReconcileEnqueuer) EnqueueReconcile(ctx context.Context, payload models.ReconcilePayload) error {
	task, opts, err := NewReconcileTask(payload, e.maxRetry)
	if err != nil {
		return fmt.Errorf("failed to build reconcile task: %w", err)
	}
	if _, err := e.client.EnqueueContext(ctx, task, opts...); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil
		}
		return fmt.Errorf("failed to enqueue reconcile task: %w", err)
	}
	return nil
}
