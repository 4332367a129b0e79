// Package exprtok implements the four-layer nested tokenizer for the
// scalar expression mini-language embedded in YAML scalars (spec.md
// §4.4): Text → Expression → Arguments → Key/Value → (recursion into
// Text). Each layer is a small hand-written state machine; none of them
// do filesystem or module-cache work, which lives in the resolver.
//
// Grounded on the directive/line tokenizing style used throughout this
// module's own internal/directive package, generalized to a recursive
// grammar the way shapestone/shape-yaml's tokenizer package treats
// embedded scalar content as its own sub-language.
package exprtok

import (
	"strings"

	"github.com/yaml-extend/yaml-extend-sub001/internal/core"
	"github.com/yaml-extend/yaml-extend-sub001/internal/position"
)

// TextKind is a token kind from the outermost (Text) layer.
type TextKind int

const (
	TextVerbatim TextKind = iota
	TextExpr
	TextEOF
)

// TextToken is a token from the Text layer: either verbatim scalar
// content, or the content of a "${...}" (or whole-scalar "$...")
// expression span.
type TextToken struct {
	Kind     TextKind
	Raw      string
	Text     string // verbatim text for TextVerbatim; inner expression source for TextExpr
	FreeExpr bool   // true when the scalar itself (not just a span) is an expression
	Pos      position.Range
}

// TokenizeText tokenizes a scalar's text into verbatim spans and embedded
// expression spans. base is the absolute byte offset of s[0] in the
// module source, so every returned Pos is already absolute — there is no
// separate rebase step (spec.md §9's design note on position rebasing).
func TokenizeText(s string, base int) ([]TextToken, []core.RawDiag) {
	var diags []core.RawDiag
	n := len(s)

	// A leading '$' not immediately followed by '{' makes the entire
	// scalar a single "free expression" (spec.md §4.4.1) — unless it's the
	// "$${" escape for a literal "${" in the output, which is never a
	// free expression even though s[1] isn't '{'.
	if n > 0 && s[0] == '$' && !(n >= 2 && s[1] == '{') && !strings.HasPrefix(s, "$${") {
		content := s[1:]
		if content == "" {
			diags = append(diags, core.RawDiag{
				Kind: core.KindExprError, Code: "expr.missing_base",
				Message: "free expression has no base",
				Pos:     position.Range{Start: base, End: base + n},
			})
		}
		tokens := []TextToken{
			{Kind: TextExpr, Raw: s, Text: content, FreeExpr: true, Pos: position.Range{Start: base + 1, End: base + n}},
			{Kind: TextEOF, Pos: position.Range{Start: base + n, End: base + n}},
		}
		return tokens, diags
	}

	var tokens []TextToken
	var buf strings.Builder
	bufStart := 0
	i := 0

	flush := func(end int) {
		if buf.Len() == 0 {
			return
		}
		tokens = append(tokens, TextToken{
			Kind: TextVerbatim, Raw: s[bufStart:end], Text: buf.String(),
			Pos: position.Range{Start: base + bufStart, End: base + end},
		})
		buf.Reset()
	}

	for i < n {
		// "$${" is a literal "${" in the output (spec.md §4.4.1).
		if strings.HasPrefix(s[i:], "$${") {
			buf.WriteString("${")
			i += 3
			continue
		}
		if strings.HasPrefix(s[i:], "${") {
			flush(i)
			openIdx := i + 1 // index of '{'
			end, closed := core.BalancedEnd(s, openIdx, '{', '}')
			if !closed {
				diags = append(diags, core.RawDiag{
					Kind: core.KindExprError, Code: "expr.unclosed_interpolation",
					Message: "unclosed ${ in scalar",
					Pos:     position.Range{Start: base + i, End: base + n},
				})
				inner := s[openIdx+1:]
				tokens = append(tokens, TextToken{
					Kind: TextExpr, Raw: s[i:], Text: inner,
					Pos: position.Range{Start: base + openIdx + 1, End: base + n},
				})
				bufStart = n
				i = n
				break
			}
			inner := s[openIdx+1 : end-1]
			tokens = append(tokens, TextToken{
				Kind: TextExpr, Raw: s[i:end], Text: inner,
				Pos: position.Range{Start: base + openIdx + 1, End: base + end - 1},
			})
			i = end
			bufStart = i
			continue
		}
		buf.WriteByte(s[i])
		i++
	}
	flush(n)
	tokens = append(tokens, TextToken{Kind: TextEOF, Pos: position.Range{Start: base + n, End: base + n}})
	return tokens, diags
}
