package evaluation

import (
	"time"
)

// Status is the lifecycle state of an evaluation assignment
type Status string

const (
	StatusPending    Status = "pending"
	StatusAssigned   Status = "assigned"
	StatusInProgress Status = "in_progress"
	StatusDue        Status = "due"
	StatusCompleted  Status = "completed"
	StatusSubmitted  Status = "submitted"
)

// Record is a normalized server-sourced evaluation assignment
type Record struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Status       Status     `json:"status"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	ReviewPeriod string     `json:"review_period,omitempty"`
	Rating       *float64   `json:"rating,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Stats summarizes an evaluation batch after reconciliation
type Stats struct {
	InProgress       int     `json:"in_progress"`
	ReviewsDue       int     `json:"reviews_due"`
	CompletedReviews int     `json:"completed_reviews"`
	AverageRating    float64 `json:"average_rating"`
}

// LoadResult is the reconciled view of the assigned evaluation list
type LoadResult struct {
	Pending []Record `json:"pending"`
	Stats   Stats    `json:"stats"`
	Total   int      `json:"total"`
}

// Submission is a staff member's answer set for one evaluation
type Submission struct {
	Responses []Answer `json:"responses"`
	Comments  string   `json:"comments,omitempty"`
}

// Answer is a single response within a submission
type Answer struct {
	QuestionID string `json:"question_id"`
	Value      string `json:"value"`
}

// SubmitResult reports how a submission was accepted
type SubmitResult struct {
	Queued  bool   `json:"queued"`
	Message string `json:"message"`
}

// Notification topics published on the in-process bus
const (
	// TopicCountUpdate carries a CountUpdate after a page-level reconcile
	TopicCountUpdate = "evaluations.count"
	// TopicCompleted carries a CompletedSignal with no count attached
	TopicCompleted = "evaluations.completed"
)

// CountUpdate is the payload of TopicCountUpdate
type CountUpdate struct {
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
	Pending   int    `json:"pending"`
	Source    string `json:"source"`
	Action    string `json:"action,omitempty"`
}

// CompletedSignal is the payload of TopicCompleted
type CompletedSignal struct {
	EvaluationID string `json:"evaluation_id,omitempty"`
}
