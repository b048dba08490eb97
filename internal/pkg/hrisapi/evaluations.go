package hrisapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/hris-sync-go/internal/domain/evaluation"
)

// ListEvaluations fetches the signed-in staff member's assigned evaluations.
// The payload shape varies across backend versions, so the raw body is
// returned for client-side probing.
func (c *Client) ListEvaluations(ctx context.Context, token string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/v1/evaluations", token, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// GetEvaluation fetches a single evaluation by id
func (c *Client) GetEvaluation(ctx context.Context, token, id string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/v1/evaluations/"+id, token, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// SubmitEvaluation posts a staff member's answer set for one evaluation
func (c *Client) SubmitEvaluation(ctx context.Context, token, id string, sub evaluation.Submission) error {
	return c.do(ctx, http.MethodPost, "/api/v1/evaluations/"+id+"/responses", token, sub, nil)
}

// DeleteEvaluation requests server-side deletion of an evaluation
func (c *Client) DeleteEvaluation(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/evaluations/"+id, token, nil, nil)
}

// NotifySubmission informs the HR-facing system that a staff member
// submitted an evaluation. Callers treat failures as non-fatal.
func (c *Client) NotifySubmission(ctx context.Context, token string, notice evaluation.SubmissionNotice) error {
	return c.do(ctx, http.MethodPost, "/api/v1/hr/submission-notices", token, notice, nil)
}
