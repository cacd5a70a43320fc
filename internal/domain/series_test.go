package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeriesUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Series
	}{
		{"null", `null`, nil},
		{"pairs", `[["2024-01", 3], ["2024-02", 5]]`, Series{{"2024-01", 3}, {"2024-02", 5}}},
		{"label value objects", `[{"label": "a", "value": 1.5}]`, Series{{"a", 1.5}}},
		{"name y objects", `[{"name": "repoA", "y": 7}]`, Series{{"repoA", 7}}},
		{"x count objects", `[{"x": "2024-03", "count": 2}]`, Series{{"2024-03", 2}}},
		{"object sorted by label", `{"2024-02": 5, "2024-01": 3, "2023-12": 1}`, Series{{"2023-12", 1}, {"2024-01", 3}, {"2024-02", 5}}},
		{"numeric labels", `[[1704067200, 3], [1.5, 4]]`, Series{{"1704067200", 3}, {"1.5", 4}}},
		{"string values", `[["a", "42"], {"label": "b", "value": "0.5"}]`, Series{{"a", 42}, {"b", 0.5}}},
		{"empty array", `[]`, Series{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Series
			require.NoError(t, json.Unmarshal([]byte(tt.input), &s))
			assert.Equal(t, tt.want, s)
		})
	}
}

func TestSeriesUnmarshalJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"scalar", `"nope"`, "unexpected JSON"},
		{"short pair", `[["a"]]`, "series point 0"},
		{"long pair", `[["a", 1, 2]]`, "got 3 elements"},
		{"bool label", `[[true, 1]]`, "neither string nor number"},
		{"non numeric value", `[{"label": "a", "value": "many"}]`, `value "many"`},
		{"object value", `{"a": [1]}`, `series point "a"`},
		{"scalar point", `[1, 2]`, "unexpected point"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Series
			err := json.Unmarshal([]byte(tt.input), &s)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSeriesInsideResult(t *testing.T) {
	var r struct {
		Stars Series `json:"starsCount"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"starsCount": {"b/repo": 2, "a/repo": 9}}`), &r))
	assert.Equal(t, Series{{"a/repo", 9}, {"b/repo", 2}}, r.Stars)
}
