package sidebar

import (
	"context"
	"log/slog"
	"sync"
	"time"

	evaluationDomain "github.com/cmlabs-hris/hris-sync-go/internal/domain/evaluation"
	sidebarDomain "github.com/cmlabs-hris/hris-sync-go/internal/domain/sidebar"
	"github.com/cmlabs-hris/hris-sync-go/internal/domain/session"
	"github.com/cmlabs-hris/hris-sync-go/internal/pkg/bus"
	"golang.org/x/sync/errgroup"
)

type service struct {
	api            sidebarDomain.CountsAPI
	tokens         session.TokenProvider
	bus            *bus.Bus
	interval       time.Duration
	reconcileDelay time.Duration

	mu     sync.Mutex
	state  sidebarDomain.State
	counts sidebarDomain.Counts

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewSidebarService creates the badge consumer. interval is the periodic
// full refresh (5 minutes in production); reconcileDelay is the short pause
// between trusting a page-level count and re-checking the server.
func NewSidebarService(
	api sidebarDomain.CountsAPI,
	tokens session.TokenProvider,
	eventBus *bus.Bus,
	interval time.Duration,
	reconcileDelay time.Duration,
) sidebarDomain.Service {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if reconcileDelay <= 0 {
		reconcileDelay = 2 * time.Second
	}
	return &service{
		api:            api,
		tokens:         tokens,
		bus:            eventBus,
		interval:       interval,
		reconcileDelay: reconcileDelay,
		state:          sidebarDomain.StateUninitialized,
		stopCh:         make(chan struct{}),
	}
}

func (s *service) Start() {
	s.wg.Add(1)
	go s.run()
}

func (s *service) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}

func (s *service) Snapshot() sidebarDomain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sidebarDomain.Snapshot{State: s.state, Counts: s.counts}
}

// Reset returns the consumer to its pre-auth state, used on sign-out
func (s *service) Reset() {
	s.mu.Lock()
	s.state = sidebarDomain.StateUninitialized
	s.counts = sidebarDomain.Counts{}
	s.mu.Unlock()
}

func (s *service) run() {
	defer s.wg.Done()

	countCh, unsubscribeCount := s.bus.Subscribe(evaluationDomain.TopicCountUpdate)
	defer unsubscribeCount()
	completedCh, unsubscribeCompleted := s.bus.Subscribe(evaluationDomain.TopicCompleted)
	defer unsubscribeCompleted()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Armed after a page-level signal to reconcile against the server
	var reconcile <-chan time.Time

	s.Refresh(context.Background())

	for {
		select {
		case ev := <-countCh:
			if update, ok := ev.Data.(evaluationDomain.CountUpdate); ok {
				s.ApplyCountUpdate(update)
				reconcile = time.After(s.reconcileDelay)
			}
		case <-completedCh:
			s.ApplyCompleted()
			reconcile = time.After(s.reconcileDelay)
		case <-reconcile:
			reconcile = nil
			s.Refresh(context.Background())
		case <-ticker.C:
			s.Refresh(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// ApplyCountUpdate trusts the page-level computation over the consumer's own
// last fetch and overwrites the evaluations badge immediately
func (s *service) ApplyCountUpdate(update evaluationDomain.CountUpdate) {
	s.mu.Lock()
	s.counts.Evaluations = update.Pending
	if s.state == sidebarDomain.StateUninitialized {
		s.state = sidebarDomain.StateReady
	}
	s.mu.Unlock()
}

// ApplyCompleted optimistically decrements the evaluations badge for
// instant feedback, floored at zero
func (s *service) ApplyCompleted() {
	s.mu.Lock()
	if s.counts.Evaluations > 0 {
		s.counts.Evaluations--
	}
	s.mu.Unlock()
}

// Refresh fetches every category independently; one failing endpoint must
// not block the others, and a failing category reports zero rather than
// stale data.
func (s *service) Refresh(ctx context.Context) {
	token, err := s.tokens.Token(ctx)
	if err != nil {
		// No session; the badges stay at their reset state
		return
	}

	s.mu.Lock()
	s.state = sidebarDomain.StateLoading
	s.mu.Unlock()

	results := make([]int, len(sidebarDomain.Categories))
	g, gCtx := errgroup.WithContext(ctx)

	for i, category := range sidebarDomain.Categories {
		i, category := i, category
		g.Go(func() error {
			n, err := s.api.PendingCount(gCtx, token, category)
			if err != nil {
				slog.Debug("sidebar count fetch failed", "category", category, "error", err)
				results[i] = 0
				return nil
			}
			results[i] = n
			return nil
		})
	}
	_ = g.Wait()

	s.mu.Lock()
	s.counts = sidebarDomain.Counts{
		Tasks:       results[0],
		Evaluations: results[1],
		Attendance:  results[2],
		Messages:    results[3],
		Reports:     results[4],
	}
	s.state = sidebarDomain.StateReady
	s.mu.Unlock()
}
