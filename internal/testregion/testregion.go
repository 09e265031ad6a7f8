// Package testregion walks a Rust syntax tree to find every line owned
// by a #[test] function or a #[cfg(test)]/#[cfg_attr(test, ...)]-gated
// item, following the traversal shape ben-ranford-lopper's JS/TS scanner
// uses over the same tree-sitter root package, retargeted at the Rust
// grammar's attribute and item node kinds.
package testregion

import (
	"bytes"
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"

	"ruloc/internal/lineindex"
	"ruloc/internal/model"
)

// Region is a half-open inclusive line interval, 1-indexed, tainted Test.
type Region struct {
	StartLine int
	EndLine   int
}

// itemKinds are the tree-sitter-rust node types that can carry outer
// attributes and therefore can be the target of #[test] / #[cfg(test)].
var itemKinds = map[string]bool{
	"function_item":    true,
	"mod_item":         true,
	"struct_item":      true,
	"enum_item":        true,
	"union_item":       true,
	"impl_item":        true,
	"trait_item":       true,
	"const_item":       true,
	"static_item":      true,
	"use_declaration":  true,
	"type_item":        true,
	"macro_definition": true,
}

// Detect parses src as Rust and returns the set of test-tainted regions.
// A parse error from the grammar itself is not surfaced: tree-sitter's
// parser is error-tolerant and still returns a best-effort tree, which is
// walked as-is, matching the "malformed input never fails the detector"
// rule.
func Detect(ctx context.Context, src []byte, idx *lineindex.Index) ([]Region, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(rust.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	w := &walker{src: src, idx: idx}
	w.walk(tree.RootNode())
	return w.regions, nil
}

// Partition maps each 1-indexed physical line to Production or Test
// according to the union of regions.
func Partition(regions []Region, lineCount int) []model.Context {
	ctxs := make([]model.Context, lineCount)
	for _, r := range regions {
		start := r.StartLine
		if start < 1 {
			start = 1
		}
		end := r.EndLine
		if end > lineCount {
			end = lineCount
		}
		for line := start; line <= end; line++ {
			ctxs[line-1] = model.Test
		}
	}
	return ctxs
}

type walker struct {
	src     []byte
	idx     *lineindex.Index
	regions []Region
}

func (w *walker) walk(node *sitter.Node) {
	count := int(node.NamedChildCount())
	for i := 0; i < count; i++ {
		child := node.NamedChild(i)
		kind := child.Type()

		if !itemKinds[kind] {
			w.walk(child)
			continue
		}

		attrStart, isTest, isCfgTest := w.precedingAttrs(node, i)
		switch {
		case isCfgTest:
			w.addRegion(attrStart, child.EndByte())
			// Whole subtree is tainted; no need to descend further.
		case isTest && kind == "function_item":
			w.addRegion(attrStart, child.EndByte())
		default:
			w.walk(child)
		}
	}
}

// precedingAttrs scans the named siblings immediately before parent's
// idx-th child for a run of attribute_item nodes, reporting whether any
// of them is a bare #[test] or a #[cfg(test)]/#[cfg_attr(test, ...)].
func (w *walker) precedingAttrs(parent *sitter.Node, idx int) (attrStart uint32, isTest, isCfgTest bool) {
	child := parent.NamedChild(idx)
	attrStart = child.StartByte()

scan:
	for j := idx - 1; j >= 0; j-- {
		sib := parent.NamedChild(j)
		switch sib.Type() {
		case "attribute_item":
			text := attrText(w.src, sib)
			if isTestAttr(text) {
				isTest = true
			}
			if isCfgTestAttr(text) {
				isCfgTest = true
			}
			attrStart = sib.StartByte()
		case "line_comment", "block_comment":
			// Only doc comments are outer attributes and get carried
			// into the region (spec: "doc comments attached as outer
			// attributes ... are Test"); a plain comment stops the
			// scan just like any other non-attribute sibling.
			if !isDocComment(w.src, sib) {
				break scan
			}
			attrStart = sib.StartByte()
		default:
			break scan
		}
	}
	return attrStart, isTest, isCfgTest
}

func (w *walker) addRegion(startByte, endByte uint32) {
	startLine, err := w.idx.LineOf(int(startByte))
	if err != nil {
		return
	}
	// endByte is one past the item's last byte; the line it lands on
	// (if endByte is itself at a line start, back it up by one byte) is
	// still the item's closing line.
	endOffset := int(endByte)
	if endOffset > 0 {
		endOffset--
	}
	endLine, err := w.idx.LineOf(endOffset)
	if err != nil {
		endLine = startLine
	}
	w.regions = append(w.regions, Region{StartLine: startLine, EndLine: endLine})
}

// attrText extracts and whitespace-normalizes the content of a
// #[...] attribute, e.g. "#[ cfg ( test ) ]" -> "cfg(test)".
func attrText(src []byte, n *sitter.Node) string {
	raw := string(src[n.StartByte():n.EndByte()])
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "#")
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "[")
	raw = strings.TrimSuffix(raw, "]")
	raw = strings.Join(strings.Fields(raw), "")
	return raw
}

// isDocComment reports whether a line_comment/block_comment node's
// source text is a rustdoc comment (///, //!, /**...*/, /*!...*/)
// rather than a plain // or /* */ comment. //// and /***/ are
// excluded, matching rustlex's own doc-vs-plain rule.
func isDocComment(src []byte, n *sitter.Node) bool {
	text := src[n.StartByte():n.EndByte()]
	switch {
	case bytes.HasPrefix(text, []byte("////")):
		return false
	case bytes.HasPrefix(text, []byte("///")):
		return true
	case bytes.HasPrefix(text, []byte("//!")):
		return true
	case bytes.HasPrefix(text, []byte("/**")):
		return len(text) <= 3 || (text[3] != '/' && text[3] != '*')
	case bytes.HasPrefix(text, []byte("/*!")):
		return true
	default:
		return false
	}
}

func isTestAttr(text string) bool {
	return text == "test"
}

// isCfgTestAttr implements the conservative cfg-breadth decision (spec
// §9 open question 2, DESIGN.md): only the literal cfg(test) predicate,
// and cfg_attr whose first argument is literally test, are recognized.
// cfg(all(test, ...)) and anything else is left as Production.
func isCfgTestAttr(text string) bool {
	if text == "cfg(test)" {
		return true
	}
	return strings.HasPrefix(text, "cfg_attr(test,")
}
