package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPurger struct {
	removed int64
	err     error
	calls   int
}

func (s *stubPurger) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	s.calls++
	return s.removed, s.err
}

func TestSessionPurgeJobHandle(t *testing.T) {
	purger := &stubPurger{removed: 3}
	job := NewSessionPurgeJob(purger, nil, nil)

	task, err := NewSessionPurgeTask()
	require.NoError(t, err)

	require.NoError(t, job.Handle(context.Background(), task))
	assert.Equal(t, 1, purger.calls)
}

func TestSessionPurgeJobPropagatesFailure(t *testing.T) {
	purger := &stubPurger{err: errors.New("db down")}
	job := NewSessionPurgeJob(purger, nil, nil)

	task, err := NewSessionPurgeTask()
	require.NoError(t, err)

	assert.Error(t, job.Handle(context.Background(), task))
}

func TestSessionPurgeJobSkipsMalformedPayload(t *testing.T) {
	purger := &stubPurger{}
	job := NewSessionPurgeJob(purger, nil, nil)

	err := job.Handle(context.Background(), asynq.NewTask(TaskSessionPurge, []byte("{not json")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.Equal(t, 0, purger.calls)
}
