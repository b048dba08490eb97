package evaluation

import (
	"context"
	"log/slog"
	"sync"
	"time"

	evaluationDomain "github.com/cmlabs-hris/hris-sync-go/internal/domain/evaluation"
	"github.com/cmlabs-hris/hris-sync-go/internal/domain/session"
	"github.com/cmlabs-hris/hris-sync-go/internal/pkg/hrisapi"
)

// RetryWorker drains the pending submission queue in the background. Entries
// leave the queue only on confirmed server acceptance; a 404 counts as
// acceptance because the evaluation was finalized upstream.
type RetryWorker struct {
	api      evaluationDomain.API
	tokens   session.TokenProvider
	queue    evaluationDomain.SubmissionQueue
	interval time.Duration

	wg     sync.WaitGroup
	stopCh chan struct{}
}

func NewRetryWorker(
	api evaluationDomain.API,
	tokens session.TokenProvider,
	queue evaluationDomain.SubmissionQueue,
	interval time.Duration,
) *RetryWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &RetryWorker{
		api:      api,
		tokens:   tokens,
		queue:    queue,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start launches the background drain loop
func (w *RetryWorker) Start() {
	w.wg.Add(1)
	go w.run()
	slog.Info("submission retry worker started", "interval", w.interval)
}

// Stop signals the loop to exit and waits for it
func (w *RetryWorker) Stop() {
	close(w.stopCh)
	w.wg.Wait()
}

func (w *RetryWorker) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			w.Flush(ctx)
			cancel()
		case <-w.stopCh:
			return
		}
	}
}

// Flush retries every queued submission once. Failures stay queued for the
// next cycle.
func (w *RetryWorker) Flush(ctx context.Context) {
	entries := w.queue.List()
	if len(entries) == 0 {
		return
	}

	token, err := w.tokens.Token(ctx)
	if err != nil {
		// Signed out or unreachable; keep the queue for later
		return
	}

	for _, entry := range entries {
		sub := evaluationDomain.Submission{Responses: entry.Responses, Comments: entry.Comments}
		err := w.api.SubmitEvaluation(ctx, token, entry.EvaluationID, sub)
		if err != nil && hrisapi.StatusCode(err) != 404 {
			slog.Warn("queued submission retry failed",
				"evaluation_id", entry.EvaluationID, "captured_at", entry.CapturedAt, "error", err)
			continue
		}

		if err := w.queue.Remove(entry.ID); err != nil {
			slog.Warn("failed to remove accepted submission from queue", "id", entry.ID, "error", err)
			continue
		}
		slog.Info("queued submission accepted", "evaluation_id", entry.EvaluationID)
	}
}
