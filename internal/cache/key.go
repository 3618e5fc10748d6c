package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
)

// Key derives a deterministic cache key from the parts of a request that
// affect its response: method, endpoint path, query/body parameters, and
// the request body. Parameters are sorted by name so insertion order never
// changes the key, and names and values are percent-encoded so separator
// characters inside a value can never collide with the pair delimiters.
// Any difference in content produces a different key.
func Key(method, path string, params map[string]string, body []byte) string {
	var sb strings.Builder
	sb.WriteString(strings.ToUpper(strings.TrimSpace(method)))
	sb.WriteByte('\n')
	sb.WriteString(path)
	sb.WriteByte('\n')

	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	for i, name := range names {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(name))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(params[name]))
	}
	sb.WriteByte('\n')

	if len(body) > 0 {
		bodySum := sha256.Sum256(body)
		sb.WriteString(hex.EncodeToString(bodySum[:]))
	}

	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}
