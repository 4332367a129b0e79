package exprtok

import (
	"strings"

	"github.com/yaml-extend/yaml-extend-sub001/internal/core"
	"github.com/yaml-extend/yaml-extend-sub001/internal/position"
)

// KVKind is a token kind from the KeyValue layer.
type KVKind int

const (
	KVKey KVKind = iota
	KVEqual
	KVValue
)

// KVToken is one token of a KEY_VALUE span: KEY "=" VALUE. VALUE is not
// itself evaluated here — its text (and a depth counter for position
// rebasing) is handed back to the caller, which re-enters TokenizeText
// recursively (spec.md §4.4.2: "value text is re-entered into the text
// tokenizer recursively").
type KVToken struct {
	Kind  KVKind
	Raw   string
	Text  string
	Pos   position.Range
	Depth int
}

// TokenizeKeyValue tokenizes a single "key=value" span (already split out
// of the Args layer) into KEY, EQUAL, VALUE. depth is the nesting level of
// this KeyValue within enclosing expressions, threaded through so the
// eventual recursive TokenizeText call on VALUE.Text can track how deep
// the interpolation nest has gone.
func TokenizeKeyValue(s string, base, depth int) ([]KVToken, []core.RawDiag) {
	var tokens []KVToken
	var diags []core.RawDiag
	n := len(s)
	i := 0

	for i < n && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	keyStart := i
	var keyText string
	if i < n && (s[i] == '"' || s[i] == '\'') {
		q := s[i]
		end, closed := core.BalancedEnd(s, i, q, q)
		if !closed {
			diags = append(diags, core.RawDiag{
				Kind: core.KindExprError, Code: "expr.unclosed_quote",
				Message: "unclosed quote in key", Pos: position.Range{Start: base + i, End: base + n},
			})
			end = n
		}
		inner := s[keyStart+1:]
		if end > keyStart+1 {
			inner = s[keyStart+1 : end-1]
		}
		keyText = inner
		i = end
	} else {
		j := i
		for j < n && s[j] != '=' {
			j++
		}
		keyText = strings.TrimRight(s[i:j], " \t")
		i = j
	}
	if keyText == "" {
		diags = append(diags, core.RawDiag{
			Kind: core.KindExprError, Code: "expr.missing_key",
			Message: "missing key in key=value", Pos: position.Range{Start: base + keyStart, End: base + i},
		})
	}
	tokens = append(tokens, KVToken{Kind: KVKey, Raw: s[keyStart:i], Text: keyText, Pos: position.Range{Start: base + keyStart, End: base + i}, Depth: depth})

	for i < n && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	if i >= n || s[i] != '=' {
		diags = append(diags, core.RawDiag{
			Kind: core.KindExprError, Code: "expr.missing_equal",
			Message: "missing = in key=value", Pos: position.Range{Start: base + i, End: base + i},
		})
		return tokens, diags
	}
	eqPos := position.Range{Start: base + i, End: base + i + 1}
	tokens = append(tokens, KVToken{Kind: KVEqual, Raw: "=", Pos: eqPos, Depth: depth})
	i++

	valStart := i
	valText := s[i:]
	if eq := topLevelEqual(valText); eq >= 0 {
		diags = append(diags, core.RawDiag{
			Kind: core.KindExprError, Code: "expr.repeated_equal",
			Message: "repeated = in key=value",
			Pos:     position.Range{Start: base + valStart + eq, End: base + valStart + eq + 1},
		})
	}
	tokens = append(tokens, KVToken{
		Kind: KVValue, Raw: valText, Text: valText,
		Pos:   position.Range{Start: base + valStart, End: base + n},
		Depth: depth + 1,
	})

	return tokens, diags
}

// topLevelEqual returns the index of the first "=" in s that falls
// outside any quoted or bracketed span, or -1 if there is none. A second
// "=" inside one key=value span (e.g. "k==v" or "k=a=b") is always a
// mistake rather than a nested expression, since nested args are split
// into their own KeyValue spans before this function ever sees them.
func topLevelEqual(s string) int {
	n := len(s)
	for i := 0; i < n; i++ {
		switch s[i] {
		case '\\':
			if i+1 < n {
				i++
			}
		case '"', '\'':
			end, closed := core.BalancedEnd(s, i, s[i], s[i])
			if !closed {
				return -1
			}
			i = end - 1
		case '(', '[', '{':
			end, closed := core.BalancedEnd(s, i, s[i], kvCloserFor(s[i]))
			if !closed {
				return -1
			}
			i = end - 1
		case '=':
			return i
		}
	}
	return -1
}

func kvCloserFor(open byte) byte {
	switch open {
	case '(':
		return ')'
	case '[':
		return ']'
	case '{':
		return '}'
	}
	return 0
}
