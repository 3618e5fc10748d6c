package api

import (
	"context"
	"encoding/json"
	"net/http"
)

// translateEndpoint translates an edge error reference string.
const translateEndpoint = "/edge-diagnostics/v1/error-translator"

// translateRequest is the error-translator endpoint request payload.
type translateRequest struct {
	ErrorCode        string `json:"errorCode"`
	TraceForwardLogs bool   `json:"traceForwardLogs"`
}

// Translate looks up an edge error reference code, optionally tracing the
// forward logs associated with it.
func (c *Client) Translate(ctx context.Context, errorCode string, trace bool) (*TranslateResponse, error) {
	body, err := json.Marshal(translateRequest{
		ErrorCode:        errorCode,
		TraceForwardLogs: trace,
	})
	if err != nil {
		return nil, &SigningError{Err: err}
	}

	payload, err := c.Fetch(ctx, http.MethodPost, translateEndpoint, nil, body, c.ttlSeconds)
	if err != nil {
		return nil, err
	}

	var resp TranslateResponse
	if parseErr := parseInto(payload, &resp); parseErr != nil {
		return nil, parseErr
	}
	return &resp, nil
}
