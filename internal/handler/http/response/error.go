package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/hris-sync-go/internal/domain/evaluation"
	"github.com/cmlabs-hris/hris-sync-go/internal/domain/session"
)

// HandleError maps domain errors to HTTP responses. Each class in the
// taxonomy keeps its own user-facing message: a permission problem must not
// read like a generic failure, and an unreachable backend must not read like
// a server fault.
func HandleError(w http.ResponseWriter, err error) {
	switch {
	// Session errors
	case errors.Is(err, session.ErrNotSignedIn):
		Unauthorized(w, "Sign in to continue")
	case errors.Is(err, session.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")

	// Evaluation errors
	case errors.Is(err, evaluation.ErrUnauthenticated):
		Unauthorized(w, "Your session has expired, sign in again")
	case errors.Is(err, evaluation.ErrPermissionDenied):
		Forbidden(w, "You do not have access to evaluations, contact your administrator")
	case errors.Is(err, evaluation.ErrEvaluationNotFound):
		NotFound(w, "Evaluation not found")
	case errors.Is(err, evaluation.ErrInvalidSubmission):
		BadRequest(w, err.Error())
	case errors.Is(err, evaluation.ErrUnavailable):
		ServiceUnavailable(w, "The HR server is unreachable, showing saved data")
	case errors.Is(err, evaluation.ErrServerFault):
		ServiceUnavailable(w, "The HR server had a problem, try again later")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
