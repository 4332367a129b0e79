package directive

import (
	"strings"

	"github.com/yaml-extend/yaml-extend-sub001/internal/core"
	"github.com/yaml-extend/yaml-extend-sub001/internal/position"
)

var typeKeywords = map[string]bool{"scalar": true, "map": true, "seq": true}

// Scan reads source line by line and returns the validated directive
// table along with the line-start index built over the whole source (the
// resolver and driver reuse the same index for decorating diagnostics
// elsewhere in the document body).
//
// Scan stops collecting directives at the first line that is neither a
// directive line nor blank (spec.md §6.2: "Directives appear on lines
// starting with % before the document body; any other line ends the
// directive region").
func Scan(source string) (*Directives, *position.Index) {
	idx := position.NewIndex(source)
	d := &Directives{}

	tagHandles := map[string]bool{}
	paramAliases := map[string]bool{}
	localAliases := map[string]bool{}
	importAliases := map[string]bool{}
	haveValidFilename := false
	haveValidYAML := false

	for _, line := range position.SplitLines(source) {
		text := line.Text
		trimmed := strings.TrimRight(text, "\r")
		if strings.TrimSpace(trimmed) == "" {
			continue
		}
		if trimmed[0] != '%' {
			break
		}

		tokens, lexDiags := tokenizeLine(trimmed[1:], line.Offset+1)
		d.Errors = append(d.Errors, lexDiags...)
		if len(tokens) == 0 {
			continue
		}

		lineRange := position.Range{Start: line.Offset, End: line.Offset + len(trimmed)}
		base := Base{
			Name:  tokens[0],
			Line:  trimmed,
			Pos:   lineRange,
			Valid: true,
		}

		switch strings.ToUpper(tokens[0].Text) {
		case "FILENAME":
			base.Kind = KindFilename
			f := &Filename{Base: base}
			if len(tokens) < 2 {
				f.fail("directive.filename.missing_value", "%FILENAME requires a value", lineRange)
			} else {
				f.Value = tokens[1]
			}
			if f.Valid && haveValidFilename {
				f.fail("directive.filename.duplicate", "only one FILENAME directive can be defined", lineRange)
			}
			if f.Valid {
				haveValidFilename = true
			}
			d.Filename = append(d.Filename, f)
			appendErrs(d, f.Errors)

		case "YAML":
			base.Kind = KindYAML
			y := &Yaml{Base: base}
			if len(tokens) < 2 {
				y.fail("directive.yaml.missing_version", "%YAML requires a version", lineRange)
			} else {
				y.Version = tokens[1]
				if y.Version.Text != "1.1" && y.Version.Text != "1.2" {
					y.fail("directive.yaml.invalid_version", "YAML version must be 1.1 or 1.2", y.Version.Pos)
				}
			}
			if y.Valid && haveValidYAML {
				y.fail("directive.yaml.duplicate", "only one YAML directive can be defined", lineRange)
			}
			if y.Valid {
				haveValidYAML = true
			}
			d.Yaml = append(d.Yaml, y)
			appendErrs(d, y.Errors)

		case "TAG":
			base.Kind = KindTag
			tg := &Tag{Base: base}
			if len(tokens) < 3 {
				tg.fail("directive.tag.missing_field", "%TAG requires a handle and a prefix", lineRange)
			} else {
				tg.Handle = tokens[1]
				tg.Prefix = tokens[2]
				if tagHandles[tg.Handle.Text] {
					tg.fail("directive.tag.duplicate_handle", "duplicate TAG handle: "+tg.Handle.Text, tg.Handle.Pos)
				}
			}
			if tg.Valid {
				tagHandles[tg.Handle.Text] = true
			}
			d.Tag = append(d.Tag, tg)
			appendErrs(d, tg.Errors)

		case "PARAM", "LOCAL":
			isLocal := strings.ToUpper(tokens[0].Text) == "LOCAL"
			if isLocal {
				base.Kind = KindLocal
			} else {
				base.Kind = KindParam
			}
			p := &Param{Base: base}
			if len(tokens) < 2 {
				p.fail("directive.param.missing_alias", "%"+tokens[0].Text+" requires an alias", lineRange)
			} else {
				p.Alias = tokens[1]
				rest := tokens[2:]
				if len(rest) > 0 {
					if typeKeywords[strings.ToLower(rest[0].Text)] {
						p.Type = rest[0]
						p.HasType = true
						rest = rest[1:]
					} else if len(rest) == 1 {
						// Single trailing token that isn't a type keyword: treat
						// as the default value (spec.md §3.5 leaves the
						// type/default disambiguation to the implementer when
						// only one optional field is present).
					} else {
						p.fail("directive.param.invalid_type", "optional type must be scalar, map, or seq", rest[0].Pos)
						rest = rest[1:]
					}
				}
				if len(rest) > 0 {
					p.Default = rest[0]
					p.HasDefault = true
				}
				aliasSet := paramAliases
				if isLocal {
					aliasSet = localAliases
				}
				if p.Valid && aliasSet[p.Alias.Text] {
					p.fail("directive.param.duplicate_alias", "duplicate alias: "+p.Alias.Text, p.Alias.Pos)
				}
				if p.Valid {
					aliasSet[p.Alias.Text] = true
				}
			}
			if isLocal {
				d.Local = append(d.Local, p)
			} else {
				d.Param = append(d.Param, p)
			}
			appendErrs(d, p.Errors)

		case "IMPORT":
			base.Kind = KindImport
			im := &Import{Base: base, Params: map[string]ImportParam{}}
			if len(tokens) < 3 {
				im.fail("directive.import.missing_field", "%IMPORT requires an alias and a path", lineRange)
			} else {
				im.Alias = tokens[1]
				im.Path = tokens[2]
				if im.Valid && importAliases[im.Alias.Text] {
					im.fail("directive.import.duplicate_alias", "duplicate import alias: "+im.Alias.Text, im.Alias.Pos)
				}
				if im.Valid {
					importAliases[im.Alias.Text] = true
				}
				for _, kv := range tokens[3:] {
					eq := strings.IndexByte(kv.Text, '=')
					if eq < 0 {
						im.fail("directive.import.missing_key", "missing key in key=value: "+kv.Text, kv.Pos)
						continue
					}
					keyText := kv.Text[:eq]
					valText := kv.Text[eq+1:]
					im.Params[keyText] = ImportParam{
						Key:   RawToken{Raw: keyText, Text: keyText, Value: keyText, Pos: kv.Pos},
						Equal: position.Range{Start: kv.Pos.Start + eq, End: kv.Pos.Start + eq + 1},
						Value: RawToken{Raw: valText, Text: valText, Value: core.ParseLiteral(valText), Pos: kv.Pos},
					}
					im.Order = append(im.Order, keyText)
				}
			}
			d.Import = append(d.Import, im)
			appendErrs(d, im.Errors)

		case "PRIVATE":
			base.Kind = KindPrivate
			pr := &Private{Base: base}
			if len(tokens) < 2 {
				pr.fail("directive.private.missing_path", "%PRIVATE requires at least one path", lineRange)
			} else {
				for _, t := range tokens[1:] {
					pr.RawPaths = append(pr.RawPaths, t)
					pr.Segments = append(pr.Segments, splitPrivatePath(t.Text))
				}
			}
			d.Private = append(d.Private, pr)
			appendErrs(d, pr.Errors)

		default:
			// Unknown directive: ignored per YAML spec, same as
			// shapestone/shape-yaml's parser.processDirective.
		}
	}

	return d, idx
}

func appendErrs(d *Directives, errs []core.RawDiag) {
	d.Errors = append(d.Errors, errs...)
}
