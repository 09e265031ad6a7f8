// Package rustlex classifies every physical line of Rust source into one
// of model.Blank, model.Comment, model.Rustdoc, model.Code, using a
// single forward scan that tracks comment/string state across line
// boundaries the same way a streaming tokenizer would.
//
// The scanner never rejects malformed input: unterminated strings, raw
// strings, or block comments simply run to end of file and every line
// they cover still gets classified, matching the "tolerate parse errors"
// rule for the line classifier.
package rustlex

import "ruloc/internal/model"

type blockState struct {
	depth int
	isDoc bool
}

type scanner struct {
	src    []byte
	line   int
	blocks blockState

	inString    bool
	inRawString bool
	rawHashes   int
}

// Classify scans src and returns one model.LineCategory per physical
// line, indexed 0..lineCount-1 (line N is result[N-1]).
//
// lineCount must match the number of physical lines as defined by
// internal/lineindex (so callers should derive it from lineindex.New).
func Classify(src []byte, lineCount int) []model.LineCategory {
	flags := make([]lineFlags, lineCount+1) // 1-indexed; index 0 unused

	sc := &scanner{src: stripBOM(src), line: 1}
	sc.run(flags)

	out := make([]model.LineCategory, lineCount)
	for i := 0; i < lineCount; i++ {
		out[i] = flags[i+1].resolve()
	}
	return out
}

type lineFlags struct {
	code    bool
	rustdoc bool
	comment bool
}

// resolve applies the fixed tie-break order Code > Rustdoc > Comment > Blank.
func (f lineFlags) resolve() model.LineCategory {
	switch {
	case f.code:
		return model.Code
	case f.rustdoc:
		return model.Rustdoc
	case f.comment:
		return model.Comment
	default:
		return model.Blank
	}
}

func stripBOM(src []byte) []byte {
	if len(src) >= 3 && src[0] == 0xEF && src[1] == 0xBB && src[2] == 0xBF {
		return src[3:]
	}
	return src
}

func (sc *scanner) mark(flags []lineFlags) {
	switch {
	case sc.inRawString, sc.inString:
		flags[sc.line].code = true
	case sc.blocks.depth > 0:
		if sc.blocks.isDoc {
			flags[sc.line].rustdoc = true
		} else {
			flags[sc.line].comment = true
		}
	}
}

func (sc *scanner) run(flags []lineFlags) {
	src := sc.src
	n := len(src)
	i := 0

	for i < n {
		c := src[i]

		if c == '\n' {
			sc.mark(flags)
			sc.line++
			i++
			continue
		}

		switch {
		case sc.inRawString:
			flags[sc.line].code = true
			if c == '"' {
				k := i + 1
				cnt := 0
				for k < n && cnt < sc.rawHashes && src[k] == '#' {
					cnt++
					k++
				}
				if cnt == sc.rawHashes {
					i = k
					sc.inRawString = false
					continue
				}
			}
			i++

		case sc.inString:
			flags[sc.line].code = true
			if c == '\\' && i+1 < n && src[i+1] != '\n' {
				i += 2
				continue
			}
			if c == '"' {
				sc.inString = false
			}
			i++

		case sc.blocks.depth > 0:
			if i+1 < n && c == '/' && src[i+1] == '*' {
				sc.blocks.depth++
				sc.mark(flags)
				i += 2
				continue
			}
			if i+1 < n && c == '*' && src[i+1] == '/' {
				sc.mark(flags)
				sc.blocks.depth--
				i += 2
				if sc.blocks.depth == 0 {
					sc.blocks.isDoc = false
				}
				continue
			}
			sc.mark(flags)
			i++

		case i+1 < n && c == '/' && src[i+1] == '/':
			isDoc := false
			j := i + 2
			slashRun := 2
			for j < n && src[j] == '/' {
				slashRun++
				j++
			}
			if slashRun == 2 && j < n && src[j] == '!' {
				isDoc = true
			} else if slashRun == 3 {
				isDoc = true
			}
			for i < n && src[i] != '\n' {
				if isDoc {
					flags[sc.line].rustdoc = true
				} else {
					flags[sc.line].comment = true
				}
				i++
			}

		case i+1 < n && c == '/' && src[i+1] == '*':
			isDoc := false
			if i+2 < n && src[i+2] == '!' {
				isDoc = true
			} else if i+2 < n && src[i+2] == '*' {
				if !(i+3 < n && (src[i+3] == '/' || src[i+3] == '*')) {
					isDoc = true
				}
			}
			sc.blocks.depth = 1
			sc.blocks.isDoc = isDoc
			sc.mark(flags)
			i += 2

		case c == '"':
			sc.inString = true
			flags[sc.line].code = true
			i++

		case c == 'r' || c == 'b':
			if ok, hashes, bodyStart := tryStartRawString(src, i); ok {
				flags[sc.line].code = true
				sc.inRawString = true
				sc.rawHashes = hashes
				i = bodyStart
				continue
			}
			flags[sc.line].code = true
			i++

		case c == '\'':
			if end, ok := charLiteralEnd(src, i); ok {
				flags[sc.line].code = true
				i = end
				continue
			}
			flags[sc.line].code = true // lifetime apostrophe
			i++

		case c == ' ' || c == '\t' || c == '\r':
			i++

		default:
			flags[sc.line].code = true
			i++
		}
	}

	// A trailing block comment or string that never closes still owns
	// the final line. When src ends with '\n', that line was already
	// marked at its terminator and sc.line is one past the last line.
	if sc.line < len(flags) {
		sc.mark(flags)
	}
}

// tryStartRawString matches r"..", r#".."#, br"..", br#".."# prefixes,
// returning the byte offset just past the opening quote (and any hash
// run) on success.
func tryStartRawString(src []byte, i int) (ok bool, hashes int, bodyStart int) {
	j := i
	if j < len(src) && src[j] == 'b' {
		j++
	}
	if j >= len(src) || src[j] != 'r' {
		return false, 0, 0
	}
	j++
	h := 0
	for j < len(src) && src[j] == '#' {
		h++
		j++
	}
	if j >= len(src) || src[j] != '"' {
		return false, 0, 0
	}
	return true, h, j + 1
}

// charLiteralEnd reports whether src[i] (a single quote) opens a char
// literal that closes on the same scan, distinguishing 'a' / '\n' from
// a bare lifetime apostrophe like 'a in &'a str.
func charLiteralEnd(src []byte, i int) (end int, ok bool) {
	j := i + 1
	if j >= len(src) {
		return 0, false
	}
	if src[j] == '\\' {
		j++
		if j >= len(src) {
			return 0, false
		}
		if src[j] == 'u' && j+1 < len(src) && src[j+1] == '{' {
			k := j + 2
			for k < len(src) && src[k] != '}' {
				k++
			}
			if k < len(src) {
				k++
			}
			j = k
		} else {
			j++
		}
	} else {
		j++
	}
	if j < len(src) && src[j] == '\'' {
		return j + 1, true
	}
	return 0, false
}
