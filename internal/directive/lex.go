package directive

import (
	"strings"

	"github.com/yaml-extend/yaml-extend-sub001/internal/core"
	"github.com/yaml-extend/yaml-extend-sub001/internal/position"
)

// unescape resolves the backslash escapes honoured throughout the
// directive grammar: \n \r \t \' \" \\ (spec.md §4.3). An unrecognized
// escape keeps the backslash.
func unescape(s string) string {
	if !strings.Contains(s, "\\") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case 'n':
				b.WriteByte('\n')
				i++
				continue
			case 'r':
				b.WriteByte('\r')
				i++
				continue
			case 't':
				b.WriteByte('\t')
				i++
				continue
			case '\'', '"', '\\':
				b.WriteByte(s[i+1])
				i++
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' }

func closerFor(open byte) byte {
	switch open {
	case '{':
		return '}'
	case '[':
		return ']'
	case '(':
		return ')'
	}
	return 0
}

// tokenizeLine splits a directive line's content (with the leading '%'
// already stripped) into RawTokens: quoted strings, balanced bracket
// groups, or barewords, split on non-escaped whitespace (spec.md §4.3.1).
// absBase is the absolute byte offset of content[0] in the module source.
func tokenizeLine(content string, absBase int) ([]RawToken, []core.RawDiag) {
	var tokens []RawToken
	var diags []core.RawDiag

	i := 0
	n := len(content)
	for i < n {
		if isSpace(content[i]) {
			i++
			continue
		}
		start := i
		switch {
		case content[i] == '"' || content[i] == '\'':
			quote := content[i]
			j := i + 1
			closed := false
			for j < n {
				if content[j] == '\\' && j+1 < n {
					j += 2
					continue
				}
				if content[j] == quote {
					closed = true
					j++
					break
				}
				j++
			}
			if !closed {
				diags = append(diags, core.RawDiag{
					Kind: core.KindParseError, Code: "directive.unclosed_quote",
					Message: "unclosed quoted token in directive",
					Pos:     position.Range{Start: absBase + start, End: absBase + n},
				})
				j = n
			}
			raw := content[start:j]
			inner := raw
			if closed {
				inner = raw[1 : len(raw)-1]
			} else {
				inner = raw[1:]
			}
			text := unescape(inner)
			tokens = append(tokens, RawToken{
				Raw: raw, Text: text, Value: text, Quoted: true,
				Pos: position.Range{Start: absBase + start, End: absBase + j},
			})
			i = j

		case closerFor(content[i]) != 0:
			open := content[i]
			close := closerFor(open)
			j, closed := core.BalancedEnd(content, i, open, close)
			if !closed {
				diags = append(diags, core.RawDiag{
					Kind: core.KindParseError, Code: "directive.unclosed_bracket",
					Message: "unclosed bracket group in directive",
					Pos:     position.Range{Start: absBase + start, End: absBase + n},
				})
				j = n
			}
			raw := content[start:j]
			text := unescape(raw)
			tokens = append(tokens, RawToken{
				Raw: raw, Text: text, Value: core.ParseLiteral(text), Quoted: false,
				Pos: position.Range{Start: absBase + start, End: absBase + j},
			})
			i = j

		default:
			j := i
			for j < n && !isSpace(content[j]) {
				if content[j] == '\\' && j+1 < n {
					j += 2
					continue
				}
				j++
			}
			raw := content[start:j]
			text := unescape(raw)
			tokens = append(tokens, RawToken{
				Raw: raw, Text: text, Value: core.ParseLiteral(text), Quoted: false,
				Pos: position.Range{Start: absBase + start, End: absBase + j},
			})
			i = j
		}
	}
	return tokens, diags
}

// splitPrivatePath splits a %PRIVATE path token's text on non-escaped '.'
// into segments, honouring the same escape set as the rest of the
// directive grammar plus \. for a literal dot (spec.md §4.3, §6.2).
func splitPrivatePath(raw string) []string {
	var segs []string
	var b strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\\' && i+1 < len(raw) {
			switch raw[i+1] {
			case 'n':
				b.WriteByte('\n')
				i++
				continue
			case 'r':
				b.WriteByte('\r')
				i++
				continue
			case 't':
				b.WriteByte('\t')
				i++
				continue
			case '\'', '"', '\\', '.':
				b.WriteByte(raw[i+1])
				i++
				continue
			}
		}
		if raw[i] == '.' {
			segs = append(segs, b.String())
			b.Reset()
			continue
		}
		b.WriteByte(raw[i])
	}
	segs = append(segs, b.String())
	return segs
}
