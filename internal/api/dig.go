package api

import (
	"context"
	"encoding/json"
	"net/http"
)

// digEndpoint runs dig from an edge server.
const digEndpoint = "/edge-diagnostics/v1/dig"

// digRequest is the dig endpoint request payload.
type digRequest struct {
	Hostname      string `json:"hostname"`
	QueryType     string `json:"queryType"`
	IsGTMHostname bool   `json:"isGtmHostname"`
}

// Dig resolves hostname from an edge server using the given DNS query type.
func (c *Client) Dig(ctx context.Context, hostname, queryType string) (*DigResponse, error) {
	body, err := json.Marshal(digRequest{
		Hostname:  hostname,
		QueryType: queryType,
	})
	if err != nil {
		return nil, &SigningError{Err: err}
	}

	payload, err := c.Fetch(ctx, http.MethodPost, digEndpoint, nil, body, c.ttlSeconds)
	if err != nil {
		return nil, err
	}

	var resp DigResponse
	if parseErr := parseInto(payload, &resp); parseErr != nil {
		return nil, parseErr
	}
	return &resp, nil
}
