// Package poll drives the poll-until-terminal protocol for job-based
// provider backends.
//
// The state machine is Pending -> InProgress -> {Complete, Error}; terminal
// states are absorbing. Once the poller observes complete or error it issues
// no further status queries. A wall-clock timeout, measured since submission
// and checked before each poll attempt, fails the job with a TIMEOUT kind
// distinct from a backend-reported error: TIMEOUT means the client gave up,
// not that the backend failed.
package poll

import (
	"context"
	"time"

	"github.com/modelgate/modelgate/aierrors"
	"github.com/modelgate/modelgate/providers/ai"
	"github.com/modelgate/modelgate/providers/observability"
)

// Defaults applied when Config fields are zero.
const (
	DefaultInterval = 1 * time.Second
	DefaultTimeout  = 2 * time.Minute
)

// StatusFunc issues one status query for the given job. A transport failure
// propagates immediately; the poller does not retry a failed poll attempt.
type StatusFunc func(ctx context.Context, jobID string) (*ai.Job, error)

// Config tunes the polling loop.
type Config struct {
	// Interval between consecutive status queries.
	Interval time.Duration
	// Timeout is the wall-clock budget measured from submission.
	Timeout time.Duration
}

// Poller waits for asynchronous generation jobs to reach a terminal state.
// One Poller instance can serve concurrent jobs; all per-job state is local
// to Wait.
type Poller struct {
	interval time.Duration
	timeout  time.Duration
	logger   observability.Logger
}

// New creates a poller. Zero config fields fall back to the defaults.
func New(cfg Config, logger observability.Logger) *Poller {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Poller{interval: interval, timeout: timeout, logger: observability.OrNop(logger)}
}

// Wait polls the job until it reaches a terminal state and returns the
// terminal result.
//
// onProgress, when non-nil, is invoked synchronously at most once per poll,
// in observation order, whenever an in_progress status carries a progress
// payload. The callback must not block for long; it runs on the polling
// goroutine.
//
// Wait aborts between polls when ctx is cancelled; an in-flight status query
// is bounded by the same ctx.
func (p *Poller) Wait(ctx context.Context, jobID string, status StatusFunc, onProgress func(ai.JobProgress)) (*ai.GenerationResult, error) {
	submitted := time.Now()

	for {
		if err := ctx.Err(); err != nil {
			return nil, aierrors.Map(err)
		}
		if time.Since(submitted) >= p.timeout {
			p.logger.Warn("generation job timed out",
				observability.String("job_id", jobID),
				observability.Duration("timeout", p.timeout))
			return nil, aierrors.Newf(aierrors.CodeTimeout, aierrors.TypeTimeout,
				"job %q did not reach a terminal state within %s", jobID, p.timeout)
		}

		job, err := status(ctx, jobID)
		if err != nil {
			return nil, err
		}

		switch job.Status {
		case ai.JobComplete:
			if job.Result == nil {
				// A complete status with no payload is a malformed backend
				// response, not a success.
				return nil, aierrors.Newf(aierrors.CodeProviderError, aierrors.TypeServer,
					"job %q reported complete without a result payload", jobID)
			}
			return job.Result, nil

		case ai.JobError:
			message := "job failed without an error payload"
			if job.Failure != nil {
				message = job.Failure.Message
			}
			envelope := aierrors.Newf(aierrors.CodeProviderError, aierrors.TypeServer,
				"job %q failed: %s", jobID, message)
			if job.Failure != nil {
				envelope.ProviderError = job.Failure.Code
			}
			return nil, envelope

		case ai.JobInProgress:
			if onProgress != nil && job.Progress != nil {
				onProgress(*job.Progress)
			}

		case ai.JobPending:
			// Not started yet; keep waiting.

		default:
			return nil, aierrors.Newf(aierrors.CodeProviderError, aierrors.TypeServer,
				"job %q reported unknown status %q", jobID, job.Status)
		}

		if err := p.sleep(ctx); err != nil {
			return nil, aierrors.Map(err)
		}
	}
}

// sleep yields between polls so concurrent requests are not starved.
func (p *Poller) sleep(ctx context.Context) error {
	timer := time.NewTimer(p.interval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
