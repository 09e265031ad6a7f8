package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"ruloc/internal/model"
)

func sampleReport() model.Report {
	file := model.FileStats{
		Path:       "src/lib.rs",
		Total:      model.LineStats{All: 4, Code: 2, Comment: 1, Blank: 1},
		Production: model.LineStats{All: 3, Code: 2, Blank: 1},
		Test:       model.LineStats{All: 1, Comment: 1},
	}
	summary := model.Summary{}
	summary.AddFile(file)
	return model.Report{Summary: summary, Files: []model.FileStats{file}}
}

func TestPrintTextIncludesHeadingsAndLabels(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintText(&buf, sampleReport()))

	out := buf.String()
	for _, want := range []string{
		"Summary:", "Files:", "Total:", "Production:", "Test:",
		"All lines:", "Blank lines:", "Comment lines:", "Rustdoc lines:", "Code lines:",
		"src/lib.rs:",
	} {
		require.Contains(t, out, want)
	}
}

func TestPrintJSONUsesKebabCaseKeys(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintJSON(&buf, sampleReport()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	summary := decoded["summary"].(map[string]any)
	total := summary["total"].(map[string]any)
	require.Contains(t, total, "all-lines")
	require.Contains(t, total, "blank-lines")
	require.Contains(t, total, "comment-lines")
	require.Contains(t, total, "rustdoc-lines")
	require.Contains(t, total, "code-lines")
}

func TestPrintJSONRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	report := sampleReport()
	require.NoError(t, PrintJSON(&buf, report))

	var decoded model.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, report, decoded)
}

func TestTagForAllEightCombinations(t *testing.T) {
	cases := []struct {
		ctx  model.Context
		cat  model.LineCategory
		want DebugTag
	}{
		{model.Production, model.Blank, TagProductionBlank},
		{model.Production, model.Code, TagProductionCode},
		{model.Production, model.Comment, TagProductionComment},
		{model.Production, model.Rustdoc, TagProductionRustdoc},
		{model.Test, model.Blank, TagTestBlank},
		{model.Test, model.Code, TagTestCode},
		{model.Test, model.Comment, TagTestComment},
		{model.Test, model.Rustdoc, TagTestRustdoc},
	}
	for _, c := range cases {
		require.Equal(t, c.want, TagFor(c.ctx, c.cat))
	}
}
