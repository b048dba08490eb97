package evaluation

import "errors"

var (
	// ErrUnavailable means no response was received from the HRIS backend.
	// A load that fails this way is distinct from "zero evaluations assigned".
	ErrUnavailable = errors.New("evaluation service unavailable")

	// ErrUnauthenticated means the session token was missing or rejected
	ErrUnauthenticated = errors.New("authentication required")

	// ErrPermissionDenied means the signed-in user may not access evaluations
	ErrPermissionDenied = errors.New("permission denied")

	// ErrEvaluationNotFound means the server does not know the evaluation id
	ErrEvaluationNotFound = errors.New("evaluation not found")

	// ErrInvalidSubmission means the submission payload was rejected before
	// or by the server
	ErrInvalidSubmission = errors.New("invalid evaluation submission")

	// ErrServerFault means the HRIS backend reported an internal error
	ErrServerFault = errors.New("evaluation server error")
)
