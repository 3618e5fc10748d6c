package main

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/edgekit/edgectl/internal/api"
	"github.com/edgekit/edgectl/internal/cli"
	"github.com/edgekit/edgectl/pkg/version"
)

func TestMainComponents(t *testing.T) {
	t.Run("version available", func(t *testing.T) {
		assert.NotEmpty(t, version.GetVersion())
	})

	t.Run("cli root command", func(t *testing.T) {
		root := cli.NewRootCmd(version.GetVersion())
		assert.NotNil(t, root)
		assert.Equal(t, "edgectl", root.Use)
	})
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"config", &api.ConfigError{Msg: "bad"}, exitConfig},
		{"wrapped config", fmt.Errorf("outer: %w", &api.ConfigError{Msg: "bad"}), exitConfig},
		{"cache", &api.CacheError{Op: "read", Err: errors.New("io")}, exitCache},
		{"signing", &api.SigningError{Err: errors.New("encode")}, exitGeneric},
		{"timeout", &api.TimeoutError{}, exitTimeout},
		{"transport", &api.TransportError{Err: errors.New("refused")}, exitTransport},
		{"invalid response", &api.InvalidResponseError{Err: errors.New("parse")}, exitInvalidResponse},
		{"poll exhausted", &api.PollExhaustedError{Attempts: 15}, exitPollExhausted},
		{"unauthorized", &api.APIError{StatusCode: http.StatusUnauthorized}, exitAuth},
		{"forbidden", &api.APIError{StatusCode: http.StatusForbidden}, exitAuth},
		{"not found", &api.APIError{StatusCode: http.StatusNotFound}, exitNotFound},
		{"method not allowed", &api.APIError{StatusCode: http.StatusMethodNotAllowed}, exitMethodNotAllow},
		{"rate limited", &api.APIError{StatusCode: http.StatusTooManyRequests}, exitRateLimited},
		{"bad request", &api.APIError{StatusCode: http.StatusBadRequest}, exitBadRequest},
		{"server error", &api.APIError{StatusCode: http.StatusInternalServerError}, exitGeneric},
		{"plain error", errors.New("boom"), exitGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}
