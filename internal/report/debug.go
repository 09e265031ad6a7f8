package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"ruloc/internal/lineindex"
	"ruloc/internal/model"
)

// DebugTag is one of the eight 3-character tags from spec §4.8.
type DebugTag string

const (
	TagProductionBlank   DebugTag = "PBL"
	TagProductionCode    DebugTag = "PCO"
	TagProductionComment DebugTag = "PCM"
	TagProductionRustdoc DebugTag = "PDC"
	TagTestBlank         DebugTag = "TBL"
	TagTestCode          DebugTag = "TCO"
	TagTestComment       DebugTag = "TCM"
	TagTestRustdoc       DebugTag = "TDC"
)

// TagFor derives the 3-character debug tag for one line.
func TagFor(ctx model.Context, cat model.LineCategory) DebugTag {
	production := ctx == model.Production
	switch cat {
	case model.Blank:
		if production {
			return TagProductionBlank
		}
		return TagTestBlank
	case model.Code:
		if production {
			return TagProductionCode
		}
		return TagTestCode
	case model.Comment:
		if production {
			return TagProductionComment
		}
		return TagTestComment
	case model.Rustdoc:
		if production {
			return TagProductionRustdoc
		}
		return TagTestRustdoc
	default:
		return TagProductionBlank
	}
}

var tagColors = map[DebugTag]*color.Color{
	TagProductionBlank:   color.New(color.FgWhite),
	TagProductionCode:    color.New(color.FgGreen),
	TagProductionComment: color.New(color.FgCyan),
	TagProductionRustdoc: color.New(color.FgBlue),
	TagTestBlank:         color.New(color.FgWhite, color.Faint),
	TagTestCode:          color.New(color.FgGreen, color.Bold),
	TagTestComment:       color.New(color.FgCyan, color.Bold),
	TagTestRustdoc:       color.New(color.FgBlue, color.Bold),
}

// WriteDebug prints one "TAG  line content" row per physical line, per
// spec §4.8. Color is optional and orthogonal to the tags themselves;
// with color.NoColor set the output is pure ASCII, since fatih/color
// degrades to plain Sprint in that mode.
func WriteDebug(w io.Writer, src []byte, idx *lineindex.Index, categories []model.LineCategory, contexts []model.Context) error {
	for i := 0; i < idx.LineCount(); i++ {
		start, end, err := idx.RangeOf(i + 1)
		if err != nil {
			return fmt.Errorf("report: debug line %d: %w", i+1, err)
		}
		tag := TagFor(contexts[i], categories[i])
		painted := tagColors[tag].Sprint(string(tag))
		if _, err := fmt.Fprintf(w, "%s  %s\n", painted, src[start:end]); err != nil {
			return fmt.Errorf("report: write debug line %d: %w", i+1, err)
		}
	}
	return nil
}
