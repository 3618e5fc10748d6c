package edgegrid

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// timestampFormat is the EdgeGrid request timestamp layout (UTC, second
// precision).
const timestampFormat = "20060102T15:04:05+0000"

// authScheme is the authorization scheme name.
const authScheme = "EG1-HMAC-SHA256"

// Signer computes signed authorization headers for API requests using an
// EdgeGrid credential set. The header is a pure function of the request,
// the credentials, and the timestamp/nonce pair; the clock and nonce
// sources are injectable so tests can freeze them.
type Signer struct {
	creds *Credentials
	now   func() time.Time
	nonce func() string
}

// SignerOption customizes a Signer.
type SignerOption func(*Signer)

// WithClock overrides the timestamp source. Intended for tests.
func WithClock(now func() time.Time) SignerOption {
	return func(s *Signer) { s.now = now }
}

// WithNonceSource overrides the nonce source. Intended for tests.
func WithNonceSource(nonce func() string) SignerOption {
	return func(s *Signer) { s.nonce = nonce }
}

// NewSigner creates a Signer for the given credentials. Returns an error
// if any credential field is empty, which cannot happen for credentials
// produced by Load but guards against hand-built values.
func NewSigner(creds *Credentials, opts ...SignerOption) (*Signer, error) {
	if creds == nil {
		return nil, errors.New("nil credentials")
	}
	if creds.Host == "" || creds.ClientToken == "" || creds.ClientSecret == "" || creds.AccessToken == "" {
		return nil, fmt.Errorf("%w: all credential fields must be non-empty", ErrMissingField)
	}

	s := &Signer{
		creds: creds,
		now:   time.Now,
		nonce: newNonce,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// newNonce returns a fresh ULID, unique per request.
func newNonce() string {
	return ulid.Make().String()
}

// Sign computes the authorization header for req with the given body and
// sets it on the request. A fresh timestamp and nonce are generated per
// call, so two signings of the same logical request differ in those fields
// only.
func (s *Signer) Sign(req *http.Request, body []byte) {
	timestamp := s.now().UTC().Format(timestampFormat)
	req.Header.Set("Authorization", s.authHeader(req.Method, req.URL, body, timestamp, s.nonce()))
}

// authHeader assembles the full authorization header for fixed timestamp
// and nonce values. Deterministic given identical inputs.
func (s *Signer) authHeader(method string, u *url.URL, body []byte, timestamp, nonce string) string {
	prefix := fmt.Sprintf("%s client_token=%s;access_token=%s;timestamp=%s;nonce=%s;",
		authScheme, s.creds.ClientToken, s.creds.AccessToken, timestamp, nonce)

	signature := s.signature(method, u, body, timestamp, prefix)
	return prefix + "signature=" + signature
}

// signature computes the request signature: an HMAC-SHA256 over the
// canonical request string, keyed with a signing key derived from the
// client secret and the request timestamp.
func (s *Signer) signature(method string, u *url.URL, body []byte, timestamp, authPrefix string) string {
	canonical := strings.Join([]string{
		strings.ToUpper(method),
		u.Scheme,
		u.Host,
		relativeURL(u),
		"", // no signed headers
		contentHash(method, body),
		authPrefix,
	}, "\t")

	signingKey := base64HMAC(timestamp, s.creds.ClientSecret)
	return base64HMAC(canonical, signingKey)
}

// relativeURL returns the path plus the encoded query, if any. Query
// parameters are emitted in the stable sorted order url.Values.Encode
// produces, so the signed form is canonical.
func relativeURL(u *url.URL) string {
	rel := u.EscapedPath()
	if rel == "" {
		rel = "/"
	}
	if q := u.Query().Encode(); q != "" {
		rel += "?" + q
	}
	return rel
}

// contentHash returns the base64 SHA256 of the body for POST requests and
// an empty string otherwise, per the signing scheme.
func contentHash(method string, body []byte) string {
	if !strings.EqualFold(method, http.MethodPost) || len(body) == 0 {
		return ""
	}
	sum := sha256.Sum256(body)
	return base64.StdEncoding.EncodeToString(sum[:])
}

// base64HMAC computes base64(HMAC-SHA256(key, message)).
func base64HMAC(message, key string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(message))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
