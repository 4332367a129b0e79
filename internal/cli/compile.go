package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	yamlext "github.com/yaml-extend/yaml-extend-sub001"
)

// compileCmd is an explicit alias for the root command: "yamlext FILE" and
// "yamlext compile FILE" behave identically.
var compileCmd = &cobra.Command{
	Use:   "compile FILE",
	Short: "Compile an extended-YAML module (alias for the root command)",
	Long: `Compile resolves FILE - directives, imports, and scalar expressions -
into a single document and prints it to stdout, or to --output.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCompile(cmd, args[0])
	},
}

// parseParams turns a list of "key=value" strings, as collected by
// repeated --param flags, into a %PARAM value map. Every value arrives as
// a string and stays one: the resolver checks it against a %PARAM's
// declared type but does not convert it.
func parseParams(raw []string) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(raw))
	for _, kv := range raw {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --param %q, want key=value", kv)
		}
		out[key] = value
	}
	return out, nil
}

// runCompile reads path, compiles it against the package-level flag
// values, and writes the resolved document to --output (or stdout).
func runCompile(cmd *cobra.Command, path string) error {
	params, err := parseParams(paramFlags)
	if err != nil {
		return err
	}

	outFormat, err := yamlext.ParseFormat(format)
	if err != nil {
		return err
	}

	src, err := os.ReadFile(path) // #nosec G304 -- user-controlled paths are expected for CLI tools
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	opts := yamlext.Options{
		BasePath:      basePath,
		Unsafe:        unsafeImports,
		Filepath:      abs,
		Params:        params,
		IgnorePrivate: ignorePrivate,
		IgnoreTags:    ignoreTags,
	}

	st := yamlext.NewState(log)
	defer st.Destroy()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	text, result, err := yamlext.ResolveToString(ctx, st, string(src), opts, yamlext.DumpOptions{
		Format: outFormat,
		Indent: indent,
	})
	if err != nil {
		return err
	}

	for _, d := range result.Errors {
		log.Errorf("%s: %s", d.Code, d.Message)
	}
	for _, d := range result.ImportedErrors {
		log.Warnf("%s: %s", d.Code, d.Message)
	}

	data := []byte(text)
	if !strings.HasSuffix(text, "\n") {
		data = append(data, '\n')
	}

	if check {
		return handleCheck(output, data)
	}
	return writeOutput(output, data)
}

// handleCheck compares the generated output with an existing file.
// Returns an error if the file cannot be read (except if it doesn't
// exist); exits with code 2 if the contents don't match.
func handleCheck(output string, result []byte) error {
	if output == "" {
		return fmt.Errorf("--check requires --output to be specified")
	}
	existing, err := os.ReadFile(output) // #nosec G304 -- user-controlled paths are expected for CLI tools
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read output file: %w", err)
	}
	if string(existing) != string(result) {
		os.Exit(2)
	}
	return nil
}

// writeOutput writes result to a file (atomically) or stdout.
func writeOutput(output string, result []byte) error {
	if output == "" {
		_, err := os.Stdout.Write(result)
		return err
	}

	dir := filepath.Dir(output)
	base := filepath.Base(output)

	tmp, err := os.CreateTemp(dir, base+".tmp.*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	ok := false
	defer func() {
		_ = tmp.Close()
		if !ok {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(result); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// #nosec G302 -- 0644 is standard for config files, umask applies
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, output); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	ok = true
	return nil
}
