package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONPlainObject(t *testing.T) {
	raw, ok := ExtractJSON(`{"answer":"feed twice a day","see_vet":false}`)
	require.True(t, ok)
	assert.JSONEq(t, `{"answer":"feed twice a day","see_vet":false}`, string(raw))
}

func TestExtractJSONInsideProse(t *testing.T) {
	text := `Sure! Here is my advice: {"answer":"keep the wound dry","see_vet":true} Hope that helps.`
	raw, ok := ExtractJSON(text)
	require.True(t, ok)
	assert.JSONEq(t, `{"answer":"keep the wound dry","see_vet":true}`, string(raw))
}

func TestExtractJSONCodeFence(t *testing.T) {
	text := "```json\n{\"answer\":\"trim the nails monthly\",\"see_vet\":false}\n```"
	raw, ok := ExtractJSON(text)
	require.True(t, ok)
	assert.JSONEq(t, `{"answer":"trim the nails monthly","see_vet":false}`, string(raw))
}

func TestExtractJSONNestedAndEscapedBraces(t *testing.T) {
	text := `prefix {"answer":"use a \"cone\" collar","meta":{"k":"}"}} suffix`
	raw, ok := ExtractJSON(text)
	require.True(t, ok)
	assert.JSONEq(t, `{"answer":"use a \"cone\" collar","meta":{"k":"}"}}`, string(raw))
}

func TestExtractJSONNoObject(t *testing.T) {
	_, ok := ExtractJSON("I cannot answer that in JSON, sorry.")
	assert.False(t, ok)

	// Unbalanced object never closes.
	_, ok = ExtractJSON(`{"answer":"oops`)
	assert.False(t, ok)
}
