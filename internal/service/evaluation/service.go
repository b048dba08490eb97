package evaluation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	evaluationDomain "github.com/cmlabs-hris/hris-sync-go/internal/domain/evaluation"
	"github.com/cmlabs-hris/hris-sync-go/internal/domain/session"
	"github.com/cmlabs-hris/hris-sync-go/internal/pkg/bus"
	"github.com/cmlabs-hris/hris-sync-go/internal/pkg/hrisapi"
	"github.com/google/uuid"
)

type service struct {
	api    evaluationDomain.API
	tokens session.TokenProvider
	ledger evaluationDomain.Ledger
	queue  evaluationDomain.SubmissionQueue
	bus    *bus.Bus
	now    func() time.Time
}

// NewEvaluationService creates the evaluation source backed by the remote
// HRIS API, the local completion ledger and the pending submission queue
func NewEvaluationService(
	api evaluationDomain.API,
	tokens session.TokenProvider,
	ledger evaluationDomain.Ledger,
	queue evaluationDomain.SubmissionQueue,
	eventBus *bus.Bus,
) evaluationDomain.Service {
	return &service{
		api:    api,
		tokens: tokens,
		ledger: ledger,
		queue:  queue,
		bus:    eventBus,
		now:    time.Now,
	}
}

// LoadEvaluations fetches the authoritative list, reconciles it against the
// completion ledger and broadcasts the resulting counts. A load failure is
// returned as an error so callers can tell it apart from an empty list.
func (s *service) LoadEvaluations(ctx context.Context) (*evaluationDomain.LoadResult, error) {
	token, err := s.tokens.Token(ctx)
	if err != nil {
		return nil, classify(err)
	}

	raw, err := s.api.ListEvaluations(ctx, token)
	if err != nil {
		return nil, classify(err)
	}

	records := evaluationDomain.NormalizeAll(evaluationDomain.ExtractItems(raw))
	result := evaluationDomain.Reconcile(records, s.ledger.IsCompleted, s.now())

	s.bus.Publish(evaluationDomain.TopicCountUpdate, evaluationDomain.CountUpdate{
		Total:     result.Total,
		Completed: result.Stats.CompletedReviews,
		Pending:   len(result.Pending),
		Source:    "EvaluationSource",
	})

	return result, nil
}

// GetEvaluation fetches a single evaluation. The completion ledger wins
// over a stale server status here just like it does for the list view.
func (s *service) GetEvaluation(ctx context.Context, id string) (*evaluationDomain.Record, error) {
	token, err := s.tokens.Token(ctx)
	if err != nil {
		return nil, classify(err)
	}

	raw, err := s.api.GetEvaluation(ctx, token, id)
	if err != nil {
		return nil, classify(err)
	}

	rec, ok := evaluationDomain.Normalize(evaluationDomain.ExtractItem(raw))
	if !ok {
		return nil, evaluationDomain.ErrEvaluationNotFound
	}
	if s.ledger.IsCompleted(rec.ID) {
		rec.Status = evaluationDomain.StatusCompleted
	}
	return &rec, nil
}

// SubmitResponse submits an answer set. On server acceptance the ledger
// gains the id and the HR-facing sync endpoint is notified best-effort. When
// the backend is unreachable the submission still succeeds locally: ledger
// plus retry queue, so the UI can move on.
func (s *service) SubmitResponse(ctx context.Context, id string, sub evaluationDomain.Submission) (*evaluationDomain.SubmitResult, error) {
	if len(sub.Responses) == 0 {
		return nil, fmt.Errorf("%w: responses must not be empty", evaluationDomain.ErrInvalidSubmission)
	}

	token, err := s.tokens.Token(ctx)
	if err != nil {
		return nil, classify(err)
	}

	if err := s.api.SubmitEvaluation(ctx, token, id, sub); err != nil {
		classified := classify(err)
		if !errors.Is(classified, evaluationDomain.ErrUnavailable) && !errors.Is(classified, evaluationDomain.ErrServerFault) {
			return nil, classified
		}
		return s.acceptLocally(id, sub, classified)
	}

	if err := s.ledger.MarkCompleted(id); err != nil {
		slog.Warn("failed to persist completion ledger entry", "evaluation_id", id, "error", err)
	}
	s.notifyHR(ctx, token, id)
	s.bus.Publish(evaluationDomain.TopicCompleted, evaluationDomain.CompletedSignal{EvaluationID: id})

	return &evaluationDomain.SubmitResult{Message: "Evaluation submitted"}, nil
}

// acceptLocally records the submission as done on this client and queues the
// POST for the background retry worker
func (s *service) acceptLocally(id string, sub evaluationDomain.Submission, cause error) (*evaluationDomain.SubmitResult, error) {
	if err := s.ledger.MarkCompleted(id); err != nil {
		return nil, err
	}
	if err := s.queue.Enqueue(evaluationDomain.QueuedSubmission{
		ID:           uuid.New().String(),
		EvaluationID: id,
		Responses:    sub.Responses,
		Comments:     sub.Comments,
		CapturedAt:   s.now(),
	}); err != nil {
		return nil, err
	}

	slog.Warn("submission queued for retry", "evaluation_id", id, "cause", cause)
	s.bus.Publish(evaluationDomain.TopicCompleted, evaluationDomain.CompletedSignal{EvaluationID: id})

	return &evaluationDomain.SubmitResult{
		Queued:  true,
		Message: "Evaluation saved; it will be submitted when the server is reachable",
	}, nil
}

// DeleteEvaluation requests server-side deletion. "Not found" means the
// evaluation was already finalized upstream and counts as success; either
// way the pending view is re-derived so the broadcast counts stay fresh.
func (s *service) DeleteEvaluation(ctx context.Context, id string) error {
	token, err := s.tokens.Token(ctx)
	if err != nil {
		return classify(err)
	}

	if err := s.api.DeleteEvaluation(ctx, token, id); err != nil {
		if hrisapi.StatusCode(err) != 404 {
			return classify(err)
		}
		slog.Info("evaluation already removed upstream", "evaluation_id", id)
	}

	if _, err := s.LoadEvaluations(ctx); err != nil {
		slog.Warn("failed to refresh evaluations after delete", "error", err)
	}
	return nil
}

// notifyHR fires the best-effort HR sync notice; a failure never fails the
// submission
func (s *service) notifyHR(ctx context.Context, token, id string) {
	notice := evaluationDomain.SubmissionNotice{EvaluationID: id, SubmittedAt: s.now()}
	if err := s.api.NotifySubmission(ctx, token, notice); err != nil {
		slog.Warn("HR submission notice failed", "evaluation_id", id, "error", err)
	}
}

// classify maps transport and API errors onto the domain taxonomy
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, session.ErrNotSignedIn) {
		return evaluationDomain.ErrUnauthenticated
	}
	if errors.Is(err, hrisapi.ErrTimeout) || errors.Is(err, hrisapi.ErrUnreachable) {
		return fmt.Errorf("%w: %v", evaluationDomain.ErrUnavailable, err)
	}

	var apiErr *hrisapi.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == 400:
			return fmt.Errorf("%w: %s", evaluationDomain.ErrInvalidSubmission, apiErr.Message)
		case apiErr.StatusCode == 401:
			return evaluationDomain.ErrUnauthenticated
		case apiErr.StatusCode == 403:
			return evaluationDomain.ErrPermissionDenied
		case apiErr.StatusCode == 404:
			return evaluationDomain.ErrEvaluationNotFound
		case apiErr.StatusCode >= 500:
			return fmt.Errorf("%w: %s", evaluationDomain.ErrServerFault, apiErr.Message)
		}
	}
	return err
}
