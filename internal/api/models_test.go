package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateResultStructFieldsAlwaysEmitted(t *testing.T) {
	// Struct-typed fields have no omitempty semantics in encoding/json,
	// so their keys are present even when the values are zero.
	data, err := json.Marshal(&TranslateResult{})
	require.NoError(t, err)

	var keys map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &keys))
	assert.Contains(t, keys, "clientIp")
	assert.Contains(t, keys, "edgeServerIp")
	assert.Contains(t, keys, "connectingIp")
	assert.Contains(t, keys, "logLines")
	// String fields with omitempty are dropped when empty.
	assert.NotContains(t, keys, "url")
}

func TestParseIntoInvalidPayload(t *testing.T) {
	var resp DigResponse
	err := parseInto(json.RawMessage(`{"result": "not-an-object"}`), &resp)

	var invalidErr *InvalidResponseError
	assert.ErrorAs(t, err, &invalidErr)
}
