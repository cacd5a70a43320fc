package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ghforecast/internal/domain"
	"ghforecast/internal/viewmodel"
)

func forksVariant() viewmodel.RenderVariant {
	return viewmodel.Derive(viewmodel.Context{
		State: domain.FetchState{
			Status: domain.StatusReady,
			Payload: domain.AnalyticsResult{
				ForksCount: domain.Series{{Label: "repoA", Value: 3}, {Label: "repoB", Value: 7}},
			},
		},
		ForksMode: true,
		Label:     "Fork count of all repos",
	})
}

func issuesVariant() viewmodel.RenderVariant {
	return viewmodel.Derive(viewmodel.Context{
		State: domain.FetchState{
			Status: domain.StatusReady,
			Payload: domain.AnalyticsResult{
				Created:            domain.Series{{Label: "2024-01", Value: 12}},
				CreatedAtImageURLs: domain.ImageBundle{domain.ImageModelLoss: "https://img/loss.png"},
			},
		},
		Label: "OpenAI python",
	})
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatText, f)

	f, err = ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)
	assert.False(t, f.Binary())

	f, err = ParseFormat("parquet")
	require.NoError(t, err)
	assert.True(t, f.Binary())

	_, err = ParseFormat("xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "text, json, csv, parquet, png")
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, issuesVariant(), FormatText, Options{Width: 120, NoColor: true}))

	out := buf.String()
	assert.Contains(t, out, "Monthly Created Issues for OpenAI python in last 1 year")
	assert.Contains(t, out, "2024-01")
	assert.Contains(t, out, "12")
	assert.Contains(t, out, "no data", "closed series is empty")
	assert.Contains(t, out, "https://img/loss.png")
	assert.Contains(t, out, "(none)")
}

func TestWriteTextLoading(t *testing.T) {
	var buf bytes.Buffer
	v := viewmodel.Derive(viewmodel.Context{State: domain.FetchState{Status: domain.StatusLoading}})
	require.NoError(t, WriteText(&buf, v, Options{Width: 80, NoColor: true}))
	assert.Equal(t, "Loading...\n", buf.String())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, forksVariant(), FormatJSON, Options{}))

	var decoded struct {
		Kind   string `json:"kind"`
		Charts []struct {
			Title string        `json:"title"`
			Data  domain.Series `json:"data"`
		} `json:"charts"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "forks_chart", decoded.Kind)
	require.Len(t, decoded.Charts, 1)
	assert.Equal(t, "Fork count of every repo", decoded.Charts[0].Title)
	assert.Equal(t, domain.Series{{Label: "repoA", Value: 3}, {Label: "repoB", Value: 7}}, decoded.Charts[0].Data)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, forksVariant(), FormatCSV, Options{}))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, []string{"forks_chart", "Fork count of every repo", "point", "repoA", "3", ""}, records[1])
}

func TestRowsIncludeImages(t *testing.T) {
	rows := Rows(issuesVariant())
	// one created point plus twelve image references
	require.Len(t, rows, 13)
	assert.Equal(t, "point", rows[0].Kind)

	var urls []string
	for _, r := range rows[1:] {
		assert.Equal(t, "image", r.Kind)
		if r.URL != "" {
			urls = append(urls, r.URL)
		}
	}
	assert.Equal(t, []string{"https://img/loss.png"}, urls)
}

func TestWriteParquetRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, forksVariant(), FormatParquet, Options{}))

	rows, err := parquet.Read[Row](bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	assert.Equal(t, Rows(forksVariant()), rows)
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, forksVariant(), FormatPNG, Options{}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))

	err := WritePNG(&buf, forksVariant(), 3)
	assert.ErrorIs(t, err, ErrNoChart)

	// the closed chart of this variant is empty
	err = WritePNG(&buf, issuesVariant(), 1)
	assert.ErrorIs(t, err, ErrNoChart)
}

func TestValueRange(t *testing.T) {
	tests := []struct {
		name   string
		data   domain.Series
		lo, hi float64
	}{
		{"positive", domain.Series{{Value: 3}, {Value: 10}}, 0, 11},
		{"negative", domain.Series{{Value: -10}, {Value: -5}}, -11, 0},
		{"mixed", domain.Series{{Value: -2}, {Value: 8}}, -3, 9},
		{"all zero", domain.Series{{Value: 0}}, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi := valueRange(tt.data)
			assert.InDelta(t, tt.lo, lo, 1e-9)
			assert.InDelta(t, tt.hi, hi, 1e-9)
		})
	}
}
