package exprtok

import (
	"github.com/yaml-extend/yaml-extend-sub001/internal/core"
	"github.com/yaml-extend/yaml-extend-sub001/internal/position"
)

// ArgsKind is a token kind from the Args layer.
type ArgsKind int

const (
	ArgsKeyValue ArgsKind = iota
)

// ArgsToken holds the raw text of a single "key=value" entry split on
// top-level commas; it's re-tokenized by TokenizeKeyValue.
type ArgsToken struct {
	Kind ArgsKind
	Raw  string
	Pos  position.Range
}

// TokenizeArgs splits s (the balanced content of an Expr's "(...)" group)
// into KEY_VALUE spans on top-level commas — commas nested inside
// quotes or brackets do not split (spec.md §4.4.2).
func TokenizeArgs(s string, base int) ([]ArgsToken, []core.RawDiag) {
	var tokens []ArgsToken
	var diags []core.RawDiag
	n := len(s)
	i := 0
	start := 0
	lastWasComma := false

	flush := func(end int) {
		if end > start {
			tokens = append(tokens, ArgsToken{Kind: ArgsKeyValue, Raw: s[start:end], Pos: position.Range{Start: base + start, End: base + end}})
		}
	}

	for i < n {
		switch s[i] {
		case '\\':
			if i+1 < n {
				i += 2
				continue
			}
			i++
		case '"', '\'':
			q := s[i]
			end, closed := core.BalancedEnd(s, i, q, q)
			if !closed {
				diags = append(diags, core.RawDiag{
					Kind: core.KindExprError, Code: "expr.unclosed_quote",
					Message: "unclosed quote in args", Pos: position.Range{Start: base + i, End: base + n},
				})
				i = n
				continue
			}
			i = end
		case '(', '[', '{':
			open := s[i]
			var close byte
			switch open {
			case '(':
				close = ')'
			case '[':
				close = ']'
			case '{':
				close = '}'
			}
			end, closed := core.BalancedEnd(s, i, open, close)
			if !closed {
				end = n
			}
			i = end
		case ',':
			if lastWasComma {
				diags = append(diags, core.RawDiag{
					Kind: core.KindExprError, Code: "expr.repeated_comma",
					Message: "repeated , in args", Pos: position.Range{Start: base + i, End: base + i + 1},
				})
			}
			flush(i)
			i++
			start = i
			lastWasComma = true
			continue
		default:
			i++
		}
		lastWasComma = false
	}
	flush(n)
	return tokens, diags
}
