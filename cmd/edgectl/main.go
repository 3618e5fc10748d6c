// Command edgectl is a CLI client for the edge network diagnostics API.
package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/edgekit/edgectl/internal/api"
	"github.com/edgekit/edgectl/internal/cli"
	"github.com/edgekit/edgectl/pkg/version"
)

// Exit codes by error kind, so scripts can branch on failure causes.
const (
	exitGeneric         = 1
	exitConfig          = 2
	exitCache           = 3
	exitNotFound        = 11
	exitAuth            = 12
	exitInvalidResponse = 13
	exitTimeout         = 14
	exitTransport       = 15
	exitMethodNotAllow  = 16
	exitRateLimited     = 17
	exitBadRequest      = 19
	exitPollExhausted   = 20
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// run executes the root command.
func run() error {
	return cli.NewRootCmd(version.GetVersion()).Execute()
}

// exitCode maps an error onto the process exit code.
func exitCode(err error) int {
	var (
		configErr    *api.ConfigError
		cacheErr     *api.CacheError
		timeoutErr   *api.TimeoutError
		transportErr *api.TransportError
		apiErr       *api.APIError
		invalidErr   *api.InvalidResponseError
		pollErr      *api.PollExhaustedError
	)

	switch {
	case errors.As(err, &configErr):
		return exitConfig
	case errors.As(err, &cacheErr):
		return exitCache
	case errors.As(err, &timeoutErr):
		return exitTimeout
	case errors.As(err, &transportErr):
		return exitTransport
	case errors.As(err, &invalidErr):
		return exitInvalidResponse
	case errors.As(err, &pollErr):
		return exitPollExhausted
	case errors.As(err, &apiErr):
		return apiExitCode(apiErr)
	default:
		return exitGeneric
	}
}

// apiExitCode refines the exit code for remote HTTP failures.
func apiExitCode(apiErr *api.APIError) int {
	switch {
	case apiErr.IsAuth():
		return exitAuth
	case apiErr.StatusCode == http.StatusNotFound:
		return exitNotFound
	case apiErr.StatusCode == http.StatusMethodNotAllowed:
		return exitMethodNotAllow
	case apiErr.StatusCode == http.StatusTooManyRequests:
		return exitRateLimited
	case apiErr.StatusCode == http.StatusBadRequest:
		return exitBadRequest
	default:
		return exitGeneric
	}
}
