package evaluation

import (
	"context"
	"encoding/json"
	"time"
)

// Service is the page-level evaluation source: it fetches the authoritative
// assignment list, reconciles it against the completion ledger and publishes
// the resulting counts.
type Service interface {
	// LoadEvaluations fetches, normalizes and reconciles the assigned
	// evaluation list for the signed-in staff member
	LoadEvaluations(ctx context.Context) (*LoadResult, error)

	// GetEvaluation fetches one evaluation by id, with the local completion
	// signal applied to its status
	GetEvaluation(ctx context.Context, id string) (*Record, error)

	// SubmitResponse submits an answer set for one evaluation. A transport
	// failure still succeeds locally: the ledger is updated and the
	// submission is queued for retry.
	SubmitResponse(ctx context.Context, id string, sub Submission) (*SubmitResult, error)

	// DeleteEvaluation requests server-side deletion. A "not found" reply is
	// treated as soft success (already finalized upstream).
	DeleteEvaluation(ctx context.Context, id string) error
}

// Ledger is the client-persisted set of evaluation ids the current user has
// confirmed submitting
type Ledger interface {
	MarkCompleted(id string) error
	IsCompleted(id string) bool
	ListCompleted() map[string]struct{}
	Clear(id string) error
}

// QueuedSubmission is a submission that succeeded locally but whose server
// POST failed; it is retried until the server confirms acceptance
type QueuedSubmission struct {
	ID           string    `json:"id"`
	EvaluationID string    `json:"evaluation_id"`
	Responses    []Answer  `json:"responses"`
	Comments     string    `json:"comments,omitempty"`
	CapturedAt   time.Time `json:"captured_at"`
}

// SubmissionQueue persists submissions awaiting server acceptance
type SubmissionQueue interface {
	Enqueue(sub QueuedSubmission) error
	List() []QueuedSubmission
	Remove(id string) error
}

// API is the remote HRIS surface the evaluation source consumes
type API interface {
	// ListEvaluations returns the raw assignment payload; the shape varies
	// by backend version, so probing happens client-side (see ExtractItems)
	ListEvaluations(ctx context.Context, token string) (json.RawMessage, error)
	GetEvaluation(ctx context.Context, token, id string) (json.RawMessage, error)
	SubmitEvaluation(ctx context.Context, token, id string, sub Submission) error
	DeleteEvaluation(ctx context.Context, token, id string) error
	// NotifySubmission informs the HR-facing system of a staff submission.
	// Best-effort: callers log and swallow failures.
	NotifySubmission(ctx context.Context, token string, notice SubmissionNotice) error
}

// SubmissionNotice is the best-effort HR sync payload
type SubmissionNotice struct {
	EvaluationID string    `json:"evaluation_id"`
	SubmittedAt  time.Time `json:"submitted_at"`
}
