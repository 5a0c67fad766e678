package localdiff

// Wire types for the diffusion server's job API, and the lenient decoder for
// its status payloads. Several popular local servers emit sloppy JSON
// (single quotes, trailing commas, NaN); a strict decode is attempted first
// and the payload is repaired and retried before giving up.

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/kaptinlin/jsonrepair"

	"github.com/modelgate/modelgate/providers/ai"
)

type submitRequest struct {
	Model          string  `json:"model,omitempty"`
	Prompt         string  `json:"prompt"`
	NegativePrompt string  `json:"negative_prompt,omitempty"`
	Steps          int     `json:"steps"`
	CFGScale       float64 `json:"cfg_scale"`
	Sampler        string  `json:"sampler,omitempty"`
	Seed           int64   `json:"seed"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	Count          int     `json:"batch_size"`
}

type submitResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type jobPayload struct {
	ID       string           `json:"id"`
	Status   string           `json:"status"`
	Progress *progressPayload `json:"progress,omitempty"`
	Result   *resultPayload   `json:"result,omitempty"`
	Error    *errorPayload    `json:"error,omitempty"`
}

type progressPayload struct {
	Stage       string  `json:"stage"`
	CurrentStep int     `json:"current_step"`
	TotalSteps  int     `json:"total_steps"`
	Percentage  float64 `json:"percentage"`
}

type resultPayload struct {
	Images []imagePayload `json:"images"`
}

type imagePayload struct {
	B64  string `json:"b64_json,omitempty"`
	URL  string `json:"url,omitempty"`
	Seed int64  `json:"seed,omitempty"`
}

type errorPayload struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func submitRequestFrom(model, prompt string, d ai.ResolvedDiffusion) submitRequest {
	return submitRequest{
		Model:          model,
		Prompt:         prompt,
		NegativePrompt: d.NegativePrompt,
		Steps:          d.Steps,
		CFGScale:       d.CFGScale,
		Sampler:        d.Sampler,
		Seed:           d.Seed,
		Width:          d.Width,
		Height:         d.Height,
		Count:          d.Count,
	}
}

// decodeJob parses a status payload, repairing malformed JSON once before
// failing.
func decodeJob(raw []byte) (*ai.Job, error) {
	var payload jobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(string(raw))
		if repairErr != nil {
			return nil, fmt.Errorf("error decoding job status: %w (repair also failed: %v)", err, repairErr)
		}
		if err := json.Unmarshal([]byte(repaired), &payload); err != nil {
			return nil, fmt.Errorf("error decoding repaired job status: %w", err)
		}
	}
	return jobToGeneric(payload)
}

func jobToGeneric(payload jobPayload) (*ai.Job, error) {
	job := &ai.Job{ID: payload.ID}

	switch payload.Status {
	case "pending", "queued":
		job.Status = ai.JobPending
	case "in_progress", "running":
		job.Status = ai.JobInProgress
	case "complete", "succeeded":
		job.Status = ai.JobComplete
	case "error", "failed":
		job.Status = ai.JobError
	default:
		return nil, fmt.Errorf("unknown job status %q", payload.Status)
	}

	if payload.Progress != nil {
		job.Progress = &ai.JobProgress{
			Stage:       payload.Progress.Stage,
			CurrentStep: payload.Progress.CurrentStep,
			TotalSteps:  payload.Progress.TotalSteps,
			Percentage:  payload.Progress.Percentage,
		}
	}

	if payload.Result != nil {
		result := &ai.GenerationResult{
			Object:  ai.ObjectImageResult,
			ID:      payload.ID,
			Created: time.Now().Unix(),
		}
		for _, img := range payload.Result.Images {
			result.Data = append(result.Data, ai.ImageData{B64: img.B64, URL: img.URL, Seed: img.Seed})
		}
		job.Result = result
	}

	if payload.Error != nil {
		job.Failure = &ai.JobFailure{Message: payload.Error.Message, Code: payload.Error.Code}
	}

	return job, nil
}
