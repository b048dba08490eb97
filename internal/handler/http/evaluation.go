package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/hris-sync-go/internal/domain/evaluation"
	"github.com/cmlabs-hris/hris-sync-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type EvaluationHandler interface {
	// List returns the reconciled pending view and stats
	List(w http.ResponseWriter, r *http.Request)
	// Get returns a single evaluation with the local completion signal
	// applied
	Get(w http.ResponseWriter, r *http.Request)
	// Submit posts an answer set for one evaluation
	Submit(w http.ResponseWriter, r *http.Request)
	// Delete removes an evaluation server-side
	Delete(w http.ResponseWriter, r *http.Request)
}

type evaluationHandlerImpl struct {
	evaluationService evaluation.Service
}

func NewEvaluationHandler(evaluationService evaluation.Service) EvaluationHandler {
	return &evaluationHandlerImpl{evaluationService: evaluationService}
}

// List handles GET /evaluations
func (h *evaluationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.evaluationService.LoadEvaluations(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Get handles GET /evaluations/{id}
func (h *evaluationHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := h.evaluationService.GetEvaluation(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, rec)
}

// Submit handles POST /evaluations/{id}/submit
func (h *evaluationHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var sub evaluation.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	result, err := h.evaluationService.SubmitResponse(r.Context(), id, sub)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, result.Message, result)
}

// Delete handles DELETE /evaluations/{id}
func (h *evaluationHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.evaluationService.DeleteEvaluation(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Evaluation removed", nil)
}
