package ui

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/filescout/internal/query"
)

func sampleResult() query.Result {
	return query.Result{
		Entries: []query.Entry{
			{
				Path:       "/data/src/main.rs",
				Name:       "main.rs",
				TypeName:   "file",
				Size:       10240,
				ModifiedAt: time.Now(),
				Icon:       "x",
			},
			{
				Path:     "/data/src",
				Name:     "src",
				TypeName: "folder",
			},
		},
		Count:          2,
		Scanned:        7,
		HighlightTerms: []string{"main"},
	}
}

func TestResultsRenderer_Plain(t *testing.T) {
	var buf bytes.Buffer
	r := NewResultsRenderer(&buf, true)

	require.NoError(t, r.Render(sampleResult()))
	out := buf.String()

	assert.Contains(t, out, "main.rs")
	assert.Contains(t, out, "/data/src/main.rs")
	assert.Contains(t, out, "10.0 KB")
	assert.Contains(t, out, "2 results (7 scanned)")
	// Folders carry no size column.
	assert.NotContains(t, out, "0 B")
}

func TestResultsRenderer_TruncatedSummary(t *testing.T) {
	var buf bytes.Buffer
	r := NewResultsRenderer(&buf, true)

	res := sampleResult()
	res.Truncated = true
	res.Errors = 3
	require.NoError(t, r.Render(res))

	assert.Contains(t, buf.String(), "truncated")
	assert.Contains(t, buf.String(), "3 walk errors")
}

func TestResultsRenderer_JSON(t *testing.T) {
	var buf bytes.Buffer
	r := NewResultsRenderer(&buf, true)

	require.NoError(t, r.RenderJSON(sampleResult()))

	var decoded query.Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 2, decoded.Count)
	assert.Equal(t, "main.rs", decoded.Entries[0].Name)
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", FormatBytes(512))
	assert.Equal(t, "1.0 KB", FormatBytes(1024))
	assert.Equal(t, "2.5 MB", FormatBytes(5<<20/2))
	assert.Equal(t, "1.0 GB", FormatBytes(1<<30))
}
