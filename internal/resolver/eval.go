package resolver

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yaml-extend/yaml-extend-sub001/internal/core"
	"github.com/yaml-extend/yaml-extend-sub001/internal/directive"
	"github.com/yaml-extend/yaml-extend-sub001/internal/exprtok"
	"github.com/yaml-extend/yaml-extend-sub001/internal/hashutil"
	"github.com/yaml-extend/yaml-extend-sub001/internal/position"
)

// evalScalarText tokenizes and evaluates a scalar's text (spec.md
// §4.6.3, §4.6.4). A free expression returns its raw evaluated value
// with no stringification; otherwise the result is the concatenation of
// verbatim text with each interpolated expression's stringified value.
func (m *Module) evalScalarText(raw string, pos position.Range) interface{} {
	sc, diags := exprtok.TokenizeScalar(raw, 0)
	m.Errors = append(m.Errors, diags...)
	return m.evalScalarTree(sc)
}

func (m *Module) evalScalarTree(sc *exprtok.Scalar) interface{} {
	if sc == nil {
		return ""
	}
	if len(sc.Tokens) == 2 && sc.Tokens[0].Kind == exprtok.TextExpr && sc.Tokens[0].FreeExpr {
		expr := sc.Expressions[0]
		if expr == nil {
			return core.Undefined{}
		}
		return m.evalExpression(expr)
	}

	var b strings.Builder
	for i, tok := range sc.Tokens {
		switch tok.Kind {
		case exprtok.TextVerbatim:
			b.WriteString(tok.Text)
		case exprtok.TextExpr:
			expr := sc.Expressions[i]
			var val interface{} = core.Undefined{}
			if expr != nil {
				val = m.evalExpression(expr)
			}
			b.WriteString(stringifyForInterpolation(val))
		}
	}
	return b.String()
}

// stringifyForInterpolation implements spec.md §4.6.4: string values pass
// through verbatim, Undefined becomes the empty string, and everything
// else is JSON-serialised.
func stringifyForInterpolation(val interface{}) string {
	if s, ok := val.(string); ok {
		return s
	}
	if core.IsUndefined(val) {
		return ""
	}
	plain := core.ToPlainValue(val)
	data, err := json.Marshal(plain)
	if err != nil {
		return fmt.Sprintf("%v", val)
	}
	return string(data)
}

// evalExpression folds a tokenized expression into a value (spec.md
// §4.6.3): base must be this|import|param|local.
func (m *Module) evalExpression(expr *exprtok.Expression) interface{} {
	switch strings.ToLower(expr.Base) {
	case "this":
		return m.evalThis(expr)
	case "import":
		return m.evalImport(expr)
	case "param":
		return m.evalParam(expr)
	case "local":
		return m.evalLocal(expr)
	default:
		// TokenizeExpr already emitted expr.invalid_base for this case.
		return core.Undefined{}
	}
}

func (m *Module) evalThis(expr *exprtok.Expression) interface{} {
	if len(expr.Paths) == 0 {
		m.addErr(core.KindParseError, "resolve.missing_path", "this requires at least one path segment", expr.Pos)
		return core.Undefined{}
	}

	cur := documentRoot(m.Root)
	for _, seg := range expr.Paths {
		next, ok := findChildNode(cur, seg)
		if !ok {
			m.addErr(core.KindParseError, "resolve.missing_path", "missing path during traversal: this."+strings.Join(expr.Paths, "."), expr.Pos)
			return core.Undefined{}
		}
		cur = next
	}

	if expr.HasArgs {
		frame := m.buildArgsFrame(expr.Args)
		m.pushLocals(frame)
		val := m.resolveNodeTransient(cur)
		m.popLocals()
		return m.checkExprType(val, expr)
	}

	if !m.resolvedFlag[cur] {
		m.addErr(core.KindParseError, "resolve.forward_reference", "tried to access node before being defined", expr.Pos)
		return core.Undefined{}
	}
	return m.checkExprType(m.resolvedValue[cur], expr)
}

func (m *Module) evalImport(expr *exprtok.Expression) interface{} {
	if len(expr.Paths) == 0 {
		m.addErr(core.KindParseError, "resolve.missing_alias", "import requires an alias", expr.Pos)
		return core.Undefined{}
	}
	alias := expr.Paths[0]
	imp, ok := m.Directives.FindImport(alias)
	if !ok {
		m.addErr(core.KindParseError, "resolve.unknown_alias", "unknown import alias: "+alias, expr.Pos)
		return core.Undefined{}
	}

	args := map[string]interface{}{}
	if expr.HasArgs {
		for _, a := range expr.Args {
			args[a.Key] = m.evalScalarTree(a.Value)
		}
	}

	res := m.importFor(imp, args)
	m.ImportedErrors = append(m.ImportedErrors, res.errs...)

	rest := expr.Paths[1:]
	if len(rest) == 0 {
		return m.checkExprType(res.value, expr)
	}
	val, ok := TraversePath(res.value, rest)
	if !ok {
		m.addErr(core.KindParseError, "resolve.missing_path", "missing path during traversal: import."+strings.Join(expr.Paths, "."), expr.Pos)
		return core.Undefined{}
	}
	return m.checkExprType(val, expr)
}

// importFor memoizes one %IMPORT's recursive compile per distinct
// argument set used within this document, so repeated references with
// the same args don't recompile.
func (m *Module) importFor(imp *directive.Import, args map[string]interface{}) *importResult {
	key := imp.Alias.Text + "#" + hashutil.HashParams(args)
	if res, ok := m.imports[key]; ok {
		return res
	}
	res := m.resolveImport(imp, args)
	m.imports[key] = res
	return res
}

func (m *Module) evalParam(expr *exprtok.Expression) interface{} {
	if len(expr.Paths) == 0 {
		m.addErr(core.KindParseError, "resolve.missing_alias", "param requires an alias", expr.Pos)
		return core.Undefined{}
	}
	alias := expr.Paths[0]
	p, ok := m.Directives.FindParam(alias)
	if !ok {
		m.addErr(core.KindParseError, "resolve.unknown_alias", "unknown param alias: "+alias, expr.Pos)
		return core.Undefined{}
	}

	val, has := m.Params[alias]
	if !has && m.Opts != nil {
		val, has = m.Opts.UniversalParams[alias]
	}
	if !has && p.HasDefault {
		val, has = p.Default.Value, true
	}
	if !has {
		val = core.Undefined{}
	}
	if p.HasType {
		if checked, ok := enforceType(val, "as "+p.Type.Text); !ok {
			m.addErr(core.KindWarning, "resolve.type_mismatch", "param "+alias+" does not match "+p.Type.Text, expr.Pos)
		} else {
			val = checked
		}
	}
	return val
}

func (m *Module) evalLocal(expr *exprtok.Expression) interface{} {
	if len(expr.Paths) == 0 {
		m.addErr(core.KindParseError, "resolve.missing_alias", "local requires an alias", expr.Pos)
		return core.Undefined{}
	}
	alias := expr.Paths[0]
	l, ok := m.Directives.FindLocal(alias)
	if !ok {
		m.addErr(core.KindParseError, "resolve.unknown_alias", "unknown local alias: "+alias, expr.Pos)
		return core.Undefined{}
	}

	val, has := m.lookupLocal(alias)
	if !has && l.HasDefault {
		val, has = l.Default.Value, true
	}
	if !has {
		val = core.Undefined{}
	}
	if l.HasType {
		if checked, ok := enforceType(val, "as "+l.Type.Text); !ok {
			m.addErr(core.KindWarning, "resolve.type_mismatch", "local "+alias+" does not match "+l.Type.Text, expr.Pos)
		} else {
			val = checked
		}
	}
	return val
}

// buildArgsFrame evaluates a this(...) call's arguments into a locals
// frame pushed for the duration of that lookup.
func (m *Module) buildArgsFrame(args []exprtok.Arg) map[string]interface{} {
	frame := make(map[string]interface{}, len(args))
	for _, a := range args {
		frame[a.Key] = m.evalScalarTree(a.Value)
	}
	return frame
}

// checkExprType enforces an expression's "as scalar|map|seq" annotation,
// meaningful only for this/import (spec.md §4.6.3).
func (m *Module) checkExprType(val interface{}, expr *exprtok.Expression) interface{} {
	if !expr.HasType {
		return val
	}
	checked, ok := enforceType(val, expr.Type)
	if !ok {
		m.addErr(core.KindWarning, "resolve.type_mismatch", "value does not match "+expr.Type, expr.Pos)
		return val
	}
	return checked
}

func enforceType(val interface{}, typ string) (interface{}, bool) {
	switch typ {
	case "as scalar":
		switch val.(type) {
		case string, float64, bool, nil:
			return val, true
		case core.Undefined:
			return val, true
		default:
			return val, false
		}
	case "as map":
		_, ok := val.(*core.OrderedMap)
		return val, ok
	case "as seq":
		_, ok := val.([]interface{})
		return val, ok
	default:
		return val, true
	}
}
