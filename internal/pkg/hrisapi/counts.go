package hrisapi

import (
	"context"
	"fmt"
	"net/http"
)

type countPayload struct {
	Count   *int `json:"count"`
	Pending *int `json:"pending"`
	Total   *int `json:"total"`
}

type countEnvelope struct {
	Data *countPayload `json:"data"`
	countPayload
}

func (e *countEnvelope) value() (int, bool) {
	for _, p := range []*countPayload{e.Data, &e.countPayload} {
		if p == nil {
			continue
		}
		for _, n := range []*int{p.Count, p.Pending, p.Total} {
			if n != nil {
				return *n, true
			}
		}
	}
	return 0, false
}

// PendingCount fetches the pending badge count for one sidebar category
// (tasks, evaluations, attendance, messages, reports)
func (c *Client) PendingCount(ctx context.Context, token, category string) (int, error) {
	var env countEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/v1/"+category+"/pending-count", token, nil, &env); err != nil {
		return 0, err
	}
	n, ok := env.value()
	if !ok {
		return 0, fmt.Errorf("no count field in %s response", category)
	}
	return n, nil
}
