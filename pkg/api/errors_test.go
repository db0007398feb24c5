package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProblem_MarshalFlattensExtensions(t *testing.T) {
	p := ValidationError(map[string]string{"messages": "messages is required"})

	raw, err := json.Marshal(p)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))

	assert.Equal(t, float64(http.StatusBadRequest), body["status"])
	assert.Equal(t, "Validation Error", body["title"])
	assert.Equal(t, map[string]interface{}{"messages": "messages is required"}, body["errors"])
	assert.NotContains(t, body, "Extensions")
	assert.NotContains(t, body, "Log")
}

func TestProviderError_KeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	p := ProviderError("upstream failed", cause, WithExtension("upstream_status", 503))

	assert.Equal(t, http.StatusBadGateway, p.Status)
	assert.ErrorIs(t, p, cause)
	assert.Equal(t, 503, p.Extensions["upstream_status"])
	assert.Equal(t, "[502] Bad Gateway: upstream failed", p.Error())
}
