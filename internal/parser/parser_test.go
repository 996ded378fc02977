package parser

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParamsFile(t *testing.T) {
	tests := []struct {
		name string
		path string
		body string
	}{
		{"json", "params.json", `{"params": {"epochs": 10, "dataset": "v2"}}`},
		{"yaml", "params.yaml", "params:\n  epochs: 10\n  dataset: v2\n"},
		{"yml", "PARAMS.YML", "params:\n  epochs: 10\n  dataset: v2\n"},
		{"toml", "params.toml", "[params]\nepochs = 10\ndataset = \"v2\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, err := ParseParamsFile(tt.path, strings.NewReader(tt.body))
			require.NoError(t, err)
			require.Len(t, params, 2)
			assert.Equal(t, "v2", params["dataset"])
			assert.EqualValues(t, "10", toString(params["epochs"]))
		})
	}
}

func TestParseParamsFile_Errors(t *testing.T) {
	_, err := ParseParamsFile("params.csv", strings.NewReader(""))
	assert.ErrorContains(t, err, "unsupported file format")

	_, err = ParseParamsFile("params.json", strings.NewReader("{not-json"))
	assert.ErrorContains(t, err, "failed to parse JSON parameters")

	_, err = ParseParamsFile("params.toml", strings.NewReader("params = ["))
	assert.ErrorContains(t, err, "failed to parse TOML parameters")
}

func TestParseKeyValues(t *testing.T) {
	params, err := ParseKeyValues([]string{"epochs=10", "note=a=b", "epochs=12"})
	require.NoError(t, err)
	assert.Equal(t, "12", params["epochs"])
	assert.Equal(t, "a=b", params["note"])

	_, err = ParseKeyValues([]string{"novalue"})
	assert.ErrorContains(t, err, "expected key=value")

	_, err = ParseKeyValues([]string{"=value"})
	assert.Error(t, err)
}

func toString(v any) string {
	switch n := v.(type) {
	case json.Number:
		return n.String()
	case string:
		return n
	default:
		b, _ := json.Marshal(n)
		return string(b)
	}
}
