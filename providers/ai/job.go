package ai

// JobStatus is the lifecycle state of an asynchronous generation job.
// Transitions are monotonic: once complete or error is observed the job is
// never polled again.
type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobInProgress JobStatus = "in_progress"
	JobComplete   JobStatus = "complete"
	JobError      JobStatus = "error"
)

// Terminal reports whether the status is complete or error.
func (s JobStatus) Terminal() bool {
	return s == JobComplete || s == JobError
}

// JobProgress is the optional progress payload attached to an in_progress
// status.
type JobProgress struct {
	Stage       string  `json:"stage,omitempty"`
	CurrentStep int     `json:"current_step"`
	TotalSteps  int     `json:"total_steps"`
	Percentage  float64 `json:"percentage"`
}

// JobFailure describes a backend-reported job failure.
type JobFailure struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Job is one status observation of an asynchronous generation job. The
// payload is a tagged union on Status: Progress may accompany in_progress,
// Result must accompany complete, Failure must accompany error.
type Job struct {
	ID       string            `json:"id"`
	Status   JobStatus         `json:"status"`
	Progress *JobProgress      `json:"progress,omitempty"`
	Result   *GenerationResult `json:"result,omitempty"`
	Failure  *JobFailure       `json:"error,omitempty"`
}
