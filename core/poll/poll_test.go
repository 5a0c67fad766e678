package poll

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/modelgate/modelgate/aierrors"
	"github.com/modelgate/modelgate/providers/ai"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func fastPoller() *Poller {
	return New(Config{Interval: time.Millisecond, Timeout: time.Second}, nil)
}

// scripted returns a StatusFunc that serves the given states in order and
// counts how many polls were issued.
func scripted(states []*ai.Job, polls *int) StatusFunc {
	return func(ctx context.Context, jobID string) (*ai.Job, error) {
		i := *polls
		*polls++
		if i >= len(states) {
			i = len(states) - 1
		}
		return states[i], nil
	}
}

func TestWaitReachesComplete(t *testing.T) {
	want := &ai.GenerationResult{Object: ai.ObjectImageResult, ID: "job-1"}
	polls := 0
	status := scripted([]*ai.Job{
		{ID: "job-1", Status: ai.JobPending},
		{ID: "job-1", Status: ai.JobInProgress},
		{ID: "job-1", Status: ai.JobComplete, Result: want},
	}, &polls)

	result, err := fastPoller().Wait(context.Background(), "job-1", status, nil)
	require.NoError(t, err)
	assert.Same(t, want, result)
	assert.Equal(t, 3, polls, "the poller must stop querying once it observes a terminal state")
}

func TestWaitProgressCallbackPerPoll(t *testing.T) {
	progress := func(step int) *ai.JobProgress {
		return &ai.JobProgress{Stage: "diffusion", CurrentStep: step, TotalSteps: 20}
	}
	polls := 0
	status := scripted([]*ai.Job{
		{ID: "j", Status: ai.JobInProgress, Progress: progress(5)},
		{ID: "j", Status: ai.JobInProgress, Progress: progress(15)},
		{ID: "j", Status: ai.JobComplete, Result: &ai.GenerationResult{Object: ai.ObjectImageResult}},
	}, &polls)

	var seen []int
	_, err := fastPoller().Wait(context.Background(), "j", status, func(p ai.JobProgress) {
		seen = append(seen, p.CurrentStep)
	})
	require.NoError(t, err)
	assert.Equal(t, []int{5, 15}, seen, "one callback per in-progress poll, in observation order")
}

func TestWaitNoProgressPayloadNoCallback(t *testing.T) {
	polls := 0
	status := scripted([]*ai.Job{
		{ID: "j", Status: ai.JobInProgress},
		{ID: "j", Status: ai.JobComplete, Result: &ai.GenerationResult{}},
	}, &polls)

	calls := 0
	_, err := fastPoller().Wait(context.Background(), "j", status, func(ai.JobProgress) { calls++ })
	require.NoError(t, err)
	assert.Zero(t, calls)
}

func TestWaitCompleteWithoutResult(t *testing.T) {
	polls := 0
	status := scripted([]*ai.Job{{ID: "j", Status: ai.JobComplete}}, &polls)

	_, err := fastPoller().Wait(context.Background(), "j", status, nil)
	var envelope *aierrors.Envelope
	require.ErrorAs(t, err, &envelope)
	assert.Equal(t, aierrors.CodeProviderError, envelope.Code)
	assert.Equal(t, aierrors.TypeServer, envelope.Type)
}

func TestWaitJobError(t *testing.T) {
	polls := 0
	status := scripted([]*ai.Job{{
		ID:      "j",
		Status:  ai.JobError,
		Failure: &ai.JobFailure{Message: "CUDA out of memory", Code: "oom"},
	}}, &polls)

	_, err := fastPoller().Wait(context.Background(), "j", status, nil)
	var envelope *aierrors.Envelope
	require.ErrorAs(t, err, &envelope)
	assert.Equal(t, aierrors.CodeProviderError, envelope.Code)
	assert.Contains(t, envelope.Message, "CUDA out of memory")
	assert.Equal(t, "oom", envelope.ProviderError)
	assert.Equal(t, 1, polls, "an error state is terminal")
}

func TestWaitTimeoutIsDistinctFromBackendError(t *testing.T) {
	p := New(Config{Interval: time.Millisecond, Timeout: 15 * time.Millisecond}, nil)
	polls := 0
	status := scripted([]*ai.Job{{ID: "stuck", Status: ai.JobPending}}, &polls)

	_, err := p.Wait(context.Background(), "stuck", status, nil)
	var envelope *aierrors.Envelope
	require.ErrorAs(t, err, &envelope)
	assert.Equal(t, aierrors.CodeTimeout, envelope.Code)
	assert.Equal(t, aierrors.TypeTimeout, envelope.Type)
	assert.Contains(t, envelope.Message, "stuck")
	assert.Greater(t, polls, 0, "the job must actually have been polled before timing out")
}

func TestWaitContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	polls := 0
	status := func(ctx context.Context, jobID string) (*ai.Job, error) {
		polls++
		if polls == 2 {
			cancel()
		}
		return &ai.Job{ID: jobID, Status: ai.JobPending}, nil
	}

	_, err := fastPoller().Wait(ctx, "j", status, nil)
	var envelope *aierrors.Envelope
	require.ErrorAs(t, err, &envelope)
	assert.Equal(t, aierrors.CodeTimeout, envelope.Code)
	assert.Equal(t, 2, polls, "cancellation must stop the loop between polls")
}

func TestWaitUnknownStatus(t *testing.T) {
	polls := 0
	status := scripted([]*ai.Job{{ID: "j", Status: ai.JobStatus("paused")}}, &polls)

	_, err := fastPoller().Wait(context.Background(), "j", status, nil)
	var envelope *aierrors.Envelope
	require.ErrorAs(t, err, &envelope)
	assert.Equal(t, aierrors.CodeProviderError, envelope.Code)
	assert.Contains(t, envelope.Message, "paused")
}

func TestWaitTransportErrorPropagates(t *testing.T) {
	transport := errors.New("connection reset by peer")
	status := func(ctx context.Context, jobID string) (*ai.Job, error) {
		return nil, transport
	}

	_, err := fastPoller().Wait(context.Background(), "j", status, nil)
	require.ErrorIs(t, err, transport, "a failed poll attempt is not retried")
}

func TestNewDefaults(t *testing.T) {
	p := New(Config{}, nil)
	assert.Equal(t, DefaultInterval, p.interval)
	assert.Equal(t, DefaultTimeout, p.timeout)
}
