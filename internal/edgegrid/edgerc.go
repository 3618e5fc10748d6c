// Package edgegrid loads signing credentials from an .edgerc file and
// computes EG1-HMAC-SHA256 authorization headers for API requests.
package edgegrid

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/ini.v1"
)

// Sentinel errors for credential loading.
var (
	// ErrEdgercNotFound indicates the credentials file does not exist or
	// cannot be parsed.
	ErrEdgercNotFound = errors.New("credentials file not found or unreadable")

	// ErrSectionNotFound indicates the requested section is missing.
	ErrSectionNotFound = errors.New("credentials section not found")

	// ErrMissingField indicates a required credential field is absent or empty.
	ErrMissingField = errors.New("missing required credential field")
)

// Credentials is the immutable four-part EdgeGrid credential set. All
// fields must be non-empty; Load enforces this before any request is made.
type Credentials struct {
	Host         string
	ClientToken  string
	ClientSecret string
	AccessToken  string
}

// requiredFields are the .edgerc keys every usable section must define.
var requiredFields = []string{"host", "client_token", "client_secret", "access_token"} //nolint:gochecknoglobals // Compile-time constant lookup table.

// Load reads the named section of an INI-style .edgerc file and validates
// that all four credential fields are present and non-empty.
func Load(path, section string) (*Credentials, error) {
	file, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrEdgercNotFound, path, err)
	}

	sec, err := file.GetSection(section)
	if err != nil {
		return nil, fmt.Errorf("%w: section %q in %s", ErrSectionNotFound, section, path)
	}

	values := make(map[string]string, len(requiredFields))
	for _, name := range requiredFields {
		v := strings.TrimSpace(sec.Key(name).String())
		if v == "" {
			return nil, fmt.Errorf("%w: %q in section %q of %s", ErrMissingField, name, section, path)
		}
		values[name] = v
	}

	return &Credentials{
		Host:         strings.TrimSuffix(values["host"], "/"),
		ClientToken:  values["client_token"],
		ClientSecret: values["client_secret"],
		AccessToken:  values["access_token"],
	}, nil
}

// BaseURL returns the https base URL for the credential host.
func (c *Credentials) BaseURL() string {
	return "https://" + c.Host
}
