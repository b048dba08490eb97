package evaluation

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// arrayKeys is the fixed probe order for wrapped list payloads. The order is
// a contract: when a payload carries several array fields, the first match
// wins.
var arrayKeys = []string{"data", "evaluations", "reviews", "items", "list", "results", "content"}

// ExtractItems locates the evaluation array inside a raw list payload.
// Accepted shapes: a bare array, or an object whose first key in the probe
// order holds an array. Anything else reads as an empty list.
func ExtractItems(raw json.RawMessage) []map[string]interface{} {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil
	}

	if trimmed[0] == '[' {
		return decodeItems(trimmed)
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &wrapper); err != nil {
		return nil
	}

	for _, key := range arrayKeys {
		inner, ok := wrapper[key]
		if !ok {
			continue
		}
		innerTrimmed := bytes.TrimSpace(inner)
		if len(innerTrimmed) == 0 || innerTrimmed[0] != '[' {
			continue
		}
		return decodeItems(innerTrimmed)
	}

	return nil
}

func decodeItems(raw []byte) []map[string]interface{} {
	var items []map[string]interface{}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	return items
}

// ExtractItem locates a single evaluation object inside a raw detail
// payload: either a bare object, or one wrapped under a key in the same
// probe order as lists.
func ExtractItem(raw json.RawMessage) map[string]interface{} {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &wrapper); err != nil {
		return nil
	}

	for _, key := range arrayKeys {
		inner, ok := wrapper[key]
		if !ok {
			continue
		}
		innerTrimmed := bytes.TrimSpace(inner)
		if len(innerTrimmed) == 0 || innerTrimmed[0] != '{' {
			continue
		}
		return decodeItem(innerTrimmed)
	}

	return decodeItem(trimmed)
}

func decodeItem(raw []byte) map[string]interface{} {
	var item map[string]interface{}
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil
	}
	return item
}

// Field fallback chains. Order matters for determinism: the first populated
// field wins.
var (
	idFields        = []string{"id", "_id", "evaluation_id", "evaluationId"}
	titleFields     = []string{"title", "formName", "form_name", "name"}
	statusFields    = []string{"status", "state"}
	dueDateFields   = []string{"dueDate", "due_date", "reviewDeadline", "review_deadline", "deadline"}
	periodFields    = []string{"reviewPeriod", "review_period", "period"}
	ratingFields    = []string{"rating", "score"}
	createdAtFields = []string{"createdAt", "created_at", "assignedAt", "assigned_at", "created"}
)

// Normalize maps one raw item to a Record. Items without a usable id return
// ok=false and are skipped by NormalizeAll.
func Normalize(item map[string]interface{}) (Record, bool) {
	id := firstString(item, idFields)
	if id == "" {
		return Record{}, false
	}

	rec := Record{
		ID:           id,
		Title:        firstString(item, titleFields),
		Status:       normalizeStatus(firstString(item, statusFields)),
		ReviewPeriod: firstString(item, periodFields),
	}

	if due, ok := firstTime(item, dueDateFields); ok {
		rec.DueDate = &due
	}
	if created, ok := firstTime(item, createdAtFields); ok {
		rec.CreatedAt = created
	}
	if rating, ok := firstNumber(item, ratingFields); ok {
		rec.Rating = &rating
	}

	return rec, true
}

// NormalizeAll normalizes a raw batch preserving input order and dropping
// duplicate ids (first occurrence wins, keeping identity unique per batch).
func NormalizeAll(items []map[string]interface{}) []Record {
	records := make([]Record, 0, len(items))
	seen := make(map[string]struct{}, len(items))

	for _, item := range items {
		rec, ok := Normalize(item)
		if !ok {
			continue
		}
		if _, dup := seen[rec.ID]; dup {
			continue
		}
		seen[rec.ID] = struct{}{}
		records = append(records, rec)
	}

	return records
}

func normalizeStatus(s string) Status {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "assigned":
		return StatusAssigned
	case "in_progress", "in-progress", "inprogress":
		return StatusInProgress
	case "due", "overdue":
		return StatusDue
	case "completed", "complete", "done":
		return StatusCompleted
	case "submitted":
		return StatusSubmitted
	default:
		return StatusPending
	}
}

func firstString(item map[string]interface{}, fields []string) string {
	for _, field := range fields {
		switch v := item[field].(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

func firstNumber(item map[string]interface{}, fields []string) (float64, bool) {
	for _, field := range fields {
		switch v := item[field].(type) {
		case float64:
			return v, true
		case string:
			if n, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func firstTime(item map[string]interface{}, fields []string) (time.Time, bool) {
	for _, field := range fields {
		switch v := item[field].(type) {
		case string:
			for _, layout := range timeLayouts {
				if t, err := time.Parse(layout, strings.TrimSpace(v)); err == nil {
					return t, true
				}
			}
		case float64:
			// Unix seconds, with millisecond payloads tolerated
			if v > 1e12 {
				return time.UnixMilli(int64(v)).UTC(), true
			}
			if v > 0 {
				return time.Unix(int64(v), 0).UTC(), true
			}
		}
	}
	return time.Time{}, false
}
