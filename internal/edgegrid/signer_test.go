package edgegrid

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCreds() *Credentials {
	return &Credentials{
		Host:         "akab-host.luna.akamaiapis.net",
		ClientToken:  "akab-client-token",
		ClientSecret: "SOMESECRET",
		AccessToken:  "akab-access-token",
	}
}

// frozenSigner returns a signer with a fixed clock and nonce so headers are
// byte-for-byte reproducible.
func frozenSigner(t *testing.T) *Signer {
	t.Helper()
	s, err := NewSigner(testCreds(),
		WithClock(func() time.Time {
			return time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
		}),
		WithNonceSource(func() string {
			return "01JXFROZENNONCE0000000000X"
		}),
	)
	require.NoError(t, err)
	return s
}

func TestSignStability(t *testing.T) {
	signer := frozenSigner(t)
	body := []byte(`{"hostname":"example.com","queryType":"A"}`)

	req1, err := http.NewRequest(http.MethodPost,
		"https://akab-host.luna.akamaiapis.net/edge-diagnostics/v1/dig", nil)
	require.NoError(t, err)
	req2 := req1.Clone(req1.Context())

	signer.Sign(req1, body)
	signer.Sign(req2, body)

	// Pure function of the inputs once timestamp and nonce are frozen.
	assert.Equal(t, req1.Header.Get("Authorization"), req2.Header.Get("Authorization"))
}

func TestSignHeaderShape(t *testing.T) {
	signer := frozenSigner(t)

	req, err := http.NewRequest(http.MethodPost,
		"https://akab-host.luna.akamaiapis.net/edge-diagnostics/v1/dig", nil)
	require.NoError(t, err)
	signer.Sign(req, []byte(`{}`))

	header := req.Header.Get("Authorization")
	assert.True(t, strings.HasPrefix(header, "EG1-HMAC-SHA256 "))
	assert.Contains(t, header, "client_token=akab-client-token;")
	assert.Contains(t, header, "access_token=akab-access-token;")
	assert.Contains(t, header, "timestamp=20260314T09:26:53+0000;")
	assert.Contains(t, header, "nonce=01JXFROZENNONCE0000000000X;")
	assert.Contains(t, header, "signature=")
}

func TestSignSensitivity(t *testing.T) {
	signer := frozenSigner(t)

	sign := func(method, url string, body []byte) string {
		req, err := http.NewRequest(method, url, nil)
		require.NoError(t, err)
		signer.Sign(req, body)
		return req.Header.Get("Authorization")
	}

	base := sign(http.MethodPost, "https://akab-host.luna.akamaiapis.net/edge-diagnostics/v1/dig",
		[]byte(`{"hostname":"example.com"}`))

	t.Run("BodyChangesSignature", func(t *testing.T) {
		other := sign(http.MethodPost, "https://akab-host.luna.akamaiapis.net/edge-diagnostics/v1/dig",
			[]byte(`{"hostname":"example.org"}`))
		assert.NotEqual(t, base, other)
	})

	t.Run("PathChangesSignature", func(t *testing.T) {
		other := sign(http.MethodPost, "https://akab-host.luna.akamaiapis.net/edge-diagnostics/v1/error-translator",
			[]byte(`{"hostname":"example.com"}`))
		assert.NotEqual(t, base, other)
	})

	t.Run("QueryOrderIrrelevant", func(t *testing.T) {
		a := sign(http.MethodGet, "https://akab-host.luna.akamaiapis.net/edge-diagnostics/v1/dig?b=2&a=1", nil)
		b := sign(http.MethodGet, "https://akab-host.luna.akamaiapis.net/edge-diagnostics/v1/dig?a=1&b=2", nil)
		assert.Equal(t, a, b)
	})
}

func TestSignFreshNoncePerRequest(t *testing.T) {
	signer, err := NewSigner(testCreds())
	require.NoError(t, err)

	req1, err := http.NewRequest(http.MethodGet,
		"https://akab-host.luna.akamaiapis.net/edge-diagnostics/v1/dig", nil)
	require.NoError(t, err)
	req2 := req1.Clone(req1.Context())

	signer.Sign(req1, nil)
	signer.Sign(req2, nil)

	// Same logical request, but timestamp/nonce are freshly generated, so
	// the headers are only equivalent in effect, never byte-identical.
	assert.NotEqual(t, req1.Header.Get("Authorization"), req2.Header.Get("Authorization"))
}

func TestNewSignerValidation(t *testing.T) {
	_, err := NewSigner(nil)
	assert.Error(t, err)

	creds := testCreds()
	creds.ClientSecret = ""
	_, err = NewSigner(creds)
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestContentHash(t *testing.T) {
	// Only POST bodies are hashed into the canonical string.
	assert.NotEmpty(t, contentHash(http.MethodPost, []byte(`{}`)))
	assert.Empty(t, contentHash(http.MethodGet, []byte(`{}`)))
	assert.Empty(t, contentHash(http.MethodPost, nil))
}
