package sidebar

import "context"

// State is the badge consumer lifecycle
type State string

const (
	StateUninitialized State = "uninitialized"
	StateLoading       State = "loading"
	StateReady         State = "ready"
)

// Counts is the per-category pending snapshot shown in the navigation region
type Counts struct {
	Tasks       int `json:"tasks"`
	Evaluations int `json:"evaluations"`
	Attendance  int `json:"attendance"`
	Messages    int `json:"messages"`
	Reports     int `json:"reports"`
}

// Categories lists the count endpoints the consumer polls, in display order
var Categories = []string{"tasks", "evaluations", "attendance", "messages", "reports"}

// Snapshot pairs the current state with its counts
type Snapshot struct {
	State  State  `json:"state"`
	Counts Counts `json:"counts"`
}

// Service keeps the sidebar badges loosely consistent with page-level truth
type Service interface {
	// Start begins the periodic refresh loop and bus subscriptions
	Start()
	// Stop tears the loop down and releases subscriptions
	Stop()
	// Snapshot returns the current state and displayed counts
	Snapshot() Snapshot
	// Refresh fetches all category counts now; failures are isolated per
	// category and a failing category reports zero
	Refresh(ctx context.Context)
	// Reset returns the consumer to uninitialized with zero counts,
	// used on sign-out
	Reset()
}

// CountsAPI fetches one category's pending count from the HRIS backend
type CountsAPI interface {
	PendingCount(ctx context.Context, token, category string) (int, error)
}
