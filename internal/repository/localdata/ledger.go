// Package localdata persists the agent's client-side truth: the completion
// ledger and the pending submission queue. Values are JSON-array-encoded
// strings in the key-value store; malformed content reads as an empty set
// rather than raising.
package localdata

import (
	"encoding/json"
	"sort"
	"sync"

	"github.com/cmlabs-hris/hris-sync-go/internal/domain/evaluation"
	"github.com/cmlabs-hris/hris-sync-go/internal/pkg/kvstore"
)

const completedKey = "completed_evaluations"

// Ledger tracks which evaluation ids the current user has confirmed
// submitting, independent of server confirmation. Entries can run ahead of
// the server (optimistic) or behind it; reconciliation happens at read time
// in the evaluation source, never here.
type Ledger struct {
	mu    sync.Mutex
	store *kvstore.Store
	scope func() string
}

// NewLedger creates a ledger over the store. scope returns the current
// employee id so entries are keyed per browser/user pairing; an empty scope
// falls back to the unscoped key.
func NewLedger(store *kvstore.Store, scope func() string) evaluation.Ledger {
	if scope == nil {
		scope = func() string { return "" }
	}
	return &Ledger{store: store, scope: scope}
}

// MarkCompleted adds id to the set. Already-present ids are a no-op, so
// marking twice leaves the same ledger state as marking once.
func (l *Ledger) MarkCompleted(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	set := l.load()
	if _, ok := set[id]; ok {
		return nil
	}
	set[id] = struct{}{}
	return l.persist(set)
}

// IsCompleted reports whether the user has locally confirmed submitting id
func (l *Ledger) IsCompleted(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, ok := l.load()[id]
	return ok
}

// ListCompleted returns a snapshot copy, never the live set
func (l *Ledger) ListCompleted() map[string]struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	set := l.load()
	snapshot := make(map[string]struct{}, len(set))
	for id := range set {
		snapshot[id] = struct{}{}
	}
	return snapshot
}

// Clear removes a single id; unknown ids are a no-op
func (l *Ledger) Clear(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	set := l.load()
	if _, ok := set[id]; !ok {
		return nil
	}
	delete(set, id)
	return l.persist(set)
}

func (l *Ledger) key() string {
	if s := l.scope(); s != "" {
		return completedKey + ":" + s
	}
	return completedKey
}

func (l *Ledger) load() map[string]struct{} {
	var ids []string
	// Malformed persisted content fails open to "nothing completed"
	if err := json.Unmarshal([]byte(l.store.Get(l.key())), &ids); err != nil {
		return make(map[string]struct{})
	}

	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func (l *Ledger) persist(set map[string]struct{}) error {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	data, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return l.store.Set(l.key(), string(data))
}
