package exprtok

import (
	"strings"

	"github.com/yaml-extend/yaml-extend-sub001/internal/core"
	"github.com/yaml-extend/yaml-extend-sub001/internal/position"
)

// ExprKind is a token kind from the Expression layer.
type ExprKind int

const (
	ExprBase ExprKind = iota
	ExprDot
	ExprPath
	ExprArgsOpen // marks that Args was present; Raw holds the balanced "(...)" content
	ExprWhiteSpace
	ExprType
)

// ExprToken is one token of an Expr production: BASE ("." PATH)* ["(" Args
// ")"] [WS Type] (spec.md §4.4.1).
type ExprToken struct {
	Kind ExprKind
	Raw  string
	Text string
	Pos  position.Range
}

var validBases = map[string]bool{"this": true, "import": true, "param": true, "local": true}

// TokenizeExpr tokenizes the content of a "${...}" span (or a free
// expression) into the Expr layer's tokens. base is the absolute offset of
// s[0]. It returns the flat token list, the raw text of an Args group (if
// present, for the caller to re-tokenize via TokenizeArgs), and diagnostics.
func TokenizeExpr(s string, base int) (tokens []ExprToken, argsText string, argsPos position.Range, hasArgs bool, diags []core.RawDiag) {
	n := len(s)
	i := 0

	skipWS := func() {
		for i < n && (s[i] == ' ' || s[i] == '\t') {
			i++
		}
	}

	skipWS()
	if i >= n {
		diags = append(diags, core.RawDiag{
			Kind: core.KindExprError, Code: "expr.missing_base",
			Message: "expression has no base", Pos: position.Range{Start: base, End: base + n},
		})
		return tokens, argsText, argsPos, hasArgs, diags
	}

	// BASE: quoted or bareword.
	baseStart := i
	var baseText string
	if s[i] == '"' || s[i] == '\'' {
		q := s[i]
		end, closed := core.BalancedEnd(s, i, q, q)
		if !closed {
			diags = append(diags, core.RawDiag{
				Kind: core.KindExprError, Code: "expr.unclosed_quote",
				Message: "unclosed quote in base", Pos: position.Range{Start: base + i, End: base + n},
			})
			end = n
		}
		inner := s[baseStart+1:]
		if end > baseStart+1 {
			inner = s[baseStart+1 : end-1]
		}
		baseText = inner
		i = end
	} else {
		j := i
		for j < n && s[j] != '.' && s[j] != '(' && s[j] != ' ' && s[j] != '\t' {
			j++
		}
		baseText = s[i:j]
		i = j
	}
	if !validBases[strings.ToLower(baseText)] {
		diags = append(diags, core.RawDiag{
			Kind: core.KindExprError, Code: "expr.invalid_base",
			Message: "base must be one of this, import, param, local: got " + baseText,
			Pos:     position.Range{Start: base + baseStart, End: base + i},
		})
	}
	tokens = append(tokens, ExprToken{Kind: ExprBase, Raw: s[baseStart:i], Text: baseText, Pos: position.Range{Start: base + baseStart, End: base + i}})

	afterParen := false
	afterWhiteSpace := false

	for i < n {
		switch {
		case s[i] == '.':
			dotPos := position.Range{Start: base + i, End: base + i + 1}
			tokens = append(tokens, ExprToken{Kind: ExprDot, Raw: ".", Pos: dotPos})
			i++
			if i < n && s[i] == '.' {
				diags = append(diags, core.RawDiag{
					Kind: core.KindExprError, Code: "expr.repeated_dot",
					Message: "repeated . in expression", Pos: position.Range{Start: base + i, End: base + i + 1},
				})
			}
			pathStart := i
			var pathText string
			if i < n && (s[i] == '"' || s[i] == '\'') {
				q := s[i]
				end, closed := core.BalancedEnd(s, i, q, q)
				if !closed {
					diags = append(diags, core.RawDiag{
						Kind: core.KindExprError, Code: "expr.unclosed_quote",
						Message: "unclosed quote in path", Pos: position.Range{Start: base + i, End: base + n},
					})
					end = n
				}
				inner := s[pathStart+1:]
				if end > pathStart+1 {
					inner = s[pathStart+1 : end-1]
				}
				pathText = inner
				i = end
			} else {
				j := i
				for j < n && s[j] != '.' && s[j] != '(' && s[j] != ' ' && s[j] != '\t' {
					j++
				}
				pathText = s[i:j]
				i = j
			}
			tokens = append(tokens, ExprToken{Kind: ExprPath, Raw: s[pathStart:i], Text: pathText, Pos: position.Range{Start: base + pathStart, End: base + i}})

		case s[i] == '(':
			if afterParen {
				diags = append(diags, core.RawDiag{
					Kind: core.KindExprError, Code: "expr.repeated_args",
					Message: "repeated ( in expression", Pos: position.Range{Start: base + i, End: base + i + 1},
				})
			}
			end, closed := core.BalancedEnd(s, i, '(', ')')
			if !closed {
				diags = append(diags, core.RawDiag{
					Kind: core.KindExprError, Code: "expr.unclosed_args",
					Message: "unclosed ( in expression", Pos: position.Range{Start: base + i, End: base + n},
				})
				end = n
			}
			inner := s[i+1:]
			innerEnd := position.Range{Start: base + i + 1, End: base + n}
			if closed {
				inner = s[i+1 : end-1]
				innerEnd = position.Range{Start: base + i + 1, End: base + end - 1}
			}
			hasArgs = true
			argsText = inner
			argsPos = innerEnd
			tokens = append(tokens, ExprToken{Kind: ExprArgsOpen, Raw: s[i:end], Text: inner, Pos: position.Range{Start: base + i, End: base + end}})
			afterParen = true
			i = end

		case s[i] == ' ' || s[i] == '\t':
			wsStart := i
			skipWS()
			if afterWhiteSpace {
				diags = append(diags, core.RawDiag{
					Kind: core.KindExprError, Code: "expr.repeated_type",
					Message: "repeated whitespace-then-type in expression",
					Pos:     position.Range{Start: base + wsStart, End: base + i},
				})
			}
			afterWhiteSpace = true
			tokens = append(tokens, ExprToken{Kind: ExprWhiteSpace, Pos: position.Range{Start: base + wsStart, End: base + i}})
			if i < n {
				typeStart := i
				typeText := strings.TrimRight(s[i:], " \t")
				i = n
				tokens = append(tokens, ExprToken{Kind: ExprType, Raw: s[typeStart:], Text: typeText, Pos: position.Range{Start: base + typeStart, End: base + n}})
				if typeText != "as scalar" && typeText != "as map" && typeText != "as seq" {
					diags = append(diags, core.RawDiag{
						Kind: core.KindExprError, Code: "expr.invalid_type",
						Message: "type must be 'as scalar', 'as map', or 'as seq': got " + typeText,
						Pos:     position.Range{Start: base + typeStart, End: base + n},
					})
				}
			}

		default:
			diags = append(diags, core.RawDiag{
				Kind: core.KindExprError, Code: "expr.unexpected_char",
				Message: "unexpected character in expression", Pos: position.Range{Start: base + i, End: base + i + 1},
			})
			i++
		}
	}

	return tokens, argsText, argsPos, hasArgs, diags
}
