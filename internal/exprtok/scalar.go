package exprtok

import (
	"github.com/yaml-extend/yaml-extend-sub001/internal/core"
	"github.com/yaml-extend/yaml-extend-sub001/internal/position"
)

// Expression is one fully tokenized "${...}" (or free-expression) span:
// BASE, its PATH segments, an optional Args list, and an optional Type.
// The resolver folds this into its evaluation context (spec.md §4.6.3);
// exprtok itself only tokenizes and does light shape validation (the
// base-keyword and type-keyword checks live in TokenizeExpr).
type Expression struct {
	Tokens []ExprToken
	Base   string
	Paths  []string
	Args   []Arg
	Type   string
	HasArgs,
	HasType bool
	Pos position.Range
}

// Arg is one resolved key=value argument, with its value recursively
// tokenized as its own Scalar (values may themselves interpolate,
// spec.md §4.4.1's "Value := Text" production).
type Arg struct {
	Key      string
	KeyPos   position.Range
	EqualPos position.Range
	Value    *Scalar
	Pos      position.Range
}

// Scalar is the root of a fully tokenized scalar: the Text-layer tokens
// plus, for every TextExpr token, its tokenized Expression. Depth counts
// how many TokenizeText recursions produced this Scalar — 0 for the
// top-level scalar, incrementing for each nested "${...}" inside a
// key=value argument's value (spec.md §9's "depth counter").
type Scalar struct {
	Tokens      []TextToken
	Expressions map[int]*Expression // index into Tokens
	Depth       int
}

// TokenizeScalar runs all four tokenizer layers over s, recursing into
// argument values, and returns one tree plus every diagnostic collected
// along the way. base is the absolute offset of s[0] in the module
// source.
func TokenizeScalar(s string, base int) (*Scalar, []core.RawDiag) {
	return tokenizeScalarDepth(s, base, 0)
}

func tokenizeScalarDepth(s string, base, depth int) (*Scalar, []core.RawDiag) {
	var diags []core.RawDiag
	textTokens, textDiags := TokenizeText(s, base)
	diags = append(diags, textDiags...)

	sc := &Scalar{Tokens: textTokens, Expressions: map[int]*Expression{}, Depth: depth}

	for i, tt := range textTokens {
		if tt.Kind != TextExpr {
			continue
		}
		exprTokens, argsText, argsPos, hasArgs, exprDiags := TokenizeExpr(tt.Text, tt.Pos.Start)
		diags = append(diags, exprDiags...)

		expr := &Expression{Tokens: exprTokens, Pos: tt.Pos, HasArgs: hasArgs}
		for _, et := range exprTokens {
			switch et.Kind {
			case ExprBase:
				expr.Base = et.Text
			case ExprPath:
				expr.Paths = append(expr.Paths, et.Text)
			case ExprType:
				expr.Type = et.Text
				expr.HasType = true
			}
		}

		if hasArgs {
			argTokens, argDiags := TokenizeArgs(argsText, argsPos.Start)
			diags = append(diags, argDiags...)
			for _, at := range argTokens {
				kvTokens, kvDiags := TokenizeKeyValue(at.Raw, at.Pos.Start, depth)
				diags = append(diags, kvDiags...)

				var a Arg
				a.Pos = at.Pos
				for _, kv := range kvTokens {
					switch kv.Kind {
					case KVKey:
						a.Key = kv.Text
						a.KeyPos = kv.Pos
					case KVEqual:
						a.EqualPos = kv.Pos
					case KVValue:
						valSc, valDiags := tokenizeScalarDepth(kv.Text, kv.Pos.Start, kv.Depth)
						diags = append(diags, valDiags...)
						a.Value = valSc
					}
				}
				expr.Args = append(expr.Args, a)
			}
		}

		sc.Expressions[i] = expr
	}

	return sc, diags
}
