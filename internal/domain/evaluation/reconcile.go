package evaluation

import (
	"math"
	"sort"
	"time"
)

// Reconcile merges server-reported status with the local completion signal
// to produce the pending view and its summary stats.
//
// A record is completed when either signal says so: the ledger entry (local
// confirmation, possibly ahead of the server) or an authoritative
// completed/submitted status. The invariant len(Pending) + CompletedReviews
// == Total holds for any input.
func Reconcile(records []Record, isCompleted func(id string) bool, now time.Time) *LoadResult {
	result := &LoadResult{
		Pending: make([]Record, 0, len(records)),
		Total:   len(records),
	}

	var ratingSum float64
	var ratingCount int

	for _, rec := range records {
		if rec.Rating != nil {
			ratingSum += *rec.Rating
			ratingCount++
		}

		if isRecordCompleted(rec, isCompleted) {
			result.Stats.CompletedReviews++
			continue
		}
		result.Pending = append(result.Pending, rec)
	}

	// Newest first; ties keep the server's response order
	sort.SliceStable(result.Pending, func(i, j int) bool {
		return result.Pending[i].CreatedAt.After(result.Pending[j].CreatedAt)
	})

	for _, rec := range result.Pending {
		switch rec.Status {
		case StatusInProgress, StatusPending, StatusAssigned:
			result.Stats.InProgress++
		}
		if isDue(rec, now) {
			result.Stats.ReviewsDue++
		}
	}

	if ratingCount > 0 {
		result.Stats.AverageRating = math.Round(ratingSum/float64(ratingCount)*10) / 10
	}

	return result
}

func isRecordCompleted(rec Record, isCompleted func(id string) bool) bool {
	if rec.Status == StatusCompleted || rec.Status == StatusSubmitted {
		return true
	}
	return isCompleted(rec.ID)
}

func isDue(rec Record, now time.Time) bool {
	switch rec.Status {
	case StatusPending, StatusDue, StatusAssigned:
		return true
	}
	return rec.DueDate != nil && !rec.DueDate.After(now)
}
