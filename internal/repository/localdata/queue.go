package localdata

import (
	"encoding/json"
	"sync"

	"github.com/cmlabs-hris/hris-sync-go/internal/domain/evaluation"
	"github.com/cmlabs-hris/hris-sync-go/internal/pkg/kvstore"
)

const pendingSubmissionsKey = "pending_submissions"

// Queue persists submissions that succeeded locally but whose server POST
// failed. Entries are removed only on confirmed server acceptance.
type Queue struct {
	mu    sync.Mutex
	store *kvstore.Store
	scope func() string
}

func NewQueue(store *kvstore.Store, scope func() string) evaluation.SubmissionQueue {
	if scope == nil {
		scope = func() string { return "" }
	}
	return &Queue{store: store, scope: scope}
}

func (q *Queue) Enqueue(sub evaluation.QueuedSubmission) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.persist(append(q.load(), sub))
}

// List returns a snapshot copy of the queued submissions in capture order
func (q *Queue) List() []evaluation.QueuedSubmission {
	q.mu.Lock()
	defer q.mu.Unlock()

	entries := q.load()
	snapshot := make([]evaluation.QueuedSubmission, len(entries))
	copy(snapshot, entries)
	return snapshot
}

// Remove drops the entry with the given queue id; unknown ids are a no-op
func (q *Queue) Remove(id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	entries := q.load()
	kept := entries[:0]
	for _, entry := range entries {
		if entry.ID != id {
			kept = append(kept, entry)
		}
	}
	if len(kept) == len(entries) {
		return nil
	}
	return q.persist(kept)
}

func (q *Queue) key() string {
	if s := q.scope(); s != "" {
		return pendingSubmissionsKey + ":" + s
	}
	return pendingSubmissionsKey
}

func (q *Queue) load() []evaluation.QueuedSubmission {
	var entries []evaluation.QueuedSubmission
	if err := json.Unmarshal([]byte(q.store.Get(q.key())), &entries); err != nil {
		return nil
	}
	return entries
}

func (q *Queue) persist(entries []evaluation.QueuedSubmission) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return q.store.Set(q.key(), string(data))
}
