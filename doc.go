// Package yamlext compiles an extended-YAML module into a fully resolved
// value.
//
// A module is ordinary YAML 1.2 preceded by an optional block of
// directive lines (%FILENAME, %YAML, %TAG, %IMPORT, %PARAM, %LOCAL,
// %PRIVATE), whose document body may use a small scalar expression
// language (this.*, import.*, param.*, local.*) to reference other parts
// of the document, imported modules, and caller-supplied parameters.
//
// Example:
//
//	package main
//
//	import (
//		"context"
//		"fmt"
//		"log"
//
//		"github.com/yaml-extend/yaml-extend-sub001"
//	)
//
//	func main() {
//		result, err := yamlext.Compile(context.Background(), nil, `
//	%PARAM env scalar "dev"
//	name: my-service-${param.env}
//	`, yamlext.Options{Filepath: "service.yaml"})
//		if err != nil {
//			log.Fatal(err)
//		}
//		fmt.Printf("%+v\n", result.Value)
//	}
//
// Error Handling:
//
// Compile returns a Go error only for driver-level failures (neither
// source nor Filepath given, a cancelled context, a destroyed State, a
// recovered internal panic). Diagnostics raised while
// resolving the document itself — unknown anchors, forward references,
// type mismatches, missing imports — accumulate in Result.Errors and
// Result.ImportedErrors instead of aborting the compile; see the package
// constants ParseError, Warning, and ExprError.
//
// Use errors.Is for the sentinel Go errors:
//
//	result, err := yamlext.Compile(ctx, nil, src, opts)
//	if err != nil {
//		if errors.Is(err, yamlext.ErrSourceRequired) {
//			// Handle missing source
//		}
//	}
package yamlext
