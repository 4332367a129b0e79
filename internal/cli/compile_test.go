package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yaml-extend/yaml-extend-sub001/internal/logger"
)

func resetFlags(t *testing.T) {
	t.Helper()
	origBasePath, origUnsafe := basePath, unsafeImports
	origOutput, origCheck := output, check
	origFormat, origIndent := format, indent
	origParams, origIgnorePrivate, origIgnoreTags := paramFlags, ignorePrivate, ignoreTags
	t.Cleanup(func() {
		basePath, unsafeImports = origBasePath, origUnsafe
		output, check = origOutput, origCheck
		format, indent = origFormat, origIndent
		paramFlags, ignorePrivate, ignoreTags = origParams, origIgnorePrivate, origIgnoreTags
	})
	basePath, unsafeImports = "", false
	output, check = "", false
	format, indent = "yaml", 2
	paramFlags, ignorePrivate, ignoreTags = nil, nil, false
}

func writeModuleFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestParseParams(t *testing.T) {
	got, err := parseParams([]string{"env=prod", "region=us-east"})
	if err != nil {
		t.Fatalf("parseParams() error = %v", err)
	}
	if got["env"] != "prod" || got["region"] != "us-east" {
		t.Errorf("parseParams() = %v", got)
	}
}

func TestParseParams_Invalid(t *testing.T) {
	if _, err := parseParams([]string{"noequals"}); err == nil {
		t.Error("parseParams() expected error for missing '='")
	}
}

func TestRunCompile_Stdout(t *testing.T) {
	resetFlags(t)
	log = logger.Nop()

	dir := t.TempDir()
	path := writeModuleFile(t, dir, "mod.yaml", "name: hello\n")

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe() error = %v", err)
	}
	oldStdout := os.Stdout
	os.Stdout = w
	t.Cleanup(func() { os.Stdout = oldStdout })

	if err := runCompile(rootCmd, path); err != nil {
		t.Fatalf("runCompile() error = %v", err)
	}
	_ = w.Close()

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	if !strings.Contains(buf.String(), "name: hello") {
		t.Errorf("runCompile() output = %q, want it to contain name: hello", buf.String())
	}
}

func TestRunCompile_Params(t *testing.T) {
	resetFlags(t)
	log = logger.Nop()
	paramFlags = []string{"env=prod"}

	dir := t.TempDir()
	path := writeModuleFile(t, dir, "mod.yaml", "%PARAM env scalar \"dev\"\nname: svc-${param.env}\n")
	out := filepath.Join(dir, "out.yaml")
	output = out

	if err := runCompile(rootCmd, path); err != nil {
		t.Fatalf("runCompile() error = %v", err)
	}

	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if !strings.Contains(string(got), "svc-prod") {
		t.Errorf("output = %q, want it to contain svc-prod", got)
	}
}

func TestRunCompile_JSONFormat(t *testing.T) {
	resetFlags(t)
	log = logger.Nop()
	format = "json"

	dir := t.TempDir()
	path := writeModuleFile(t, dir, "mod.yaml", "name: hello\n")
	out := filepath.Join(dir, "out.json")
	output = out

	if err := runCompile(rootCmd, path); err != nil {
		t.Fatalf("runCompile() error = %v", err)
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if !strings.Contains(string(got), `"name"`) {
		t.Errorf("output = %q, want JSON containing name", got)
	}
}

func TestRunCompile_InvalidFormat(t *testing.T) {
	resetFlags(t)
	log = logger.Nop()
	format = "xml"

	dir := t.TempDir()
	path := writeModuleFile(t, dir, "mod.yaml", "name: hello\n")

	if err := runCompile(rootCmd, path); err == nil {
		t.Error("runCompile() expected error for invalid format")
	}
}

func TestHandleCheck_RequiresOutput(t *testing.T) {
	if err := handleCheck("", []byte("x")); err == nil {
		t.Error("handleCheck() expected error when --output is empty")
	}
}

func TestHandleCheck_Match(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.yaml")
	if err := os.WriteFile(out, []byte("name: hello\n"), 0o600); err != nil {
		t.Fatalf("failed to seed output file: %v", err)
	}
	if err := handleCheck(out, []byte("name: hello\n")); err != nil {
		t.Errorf("handleCheck() error = %v, want nil for matching content", err)
	}
}

func TestWriteOutput_File(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.yaml")
	if err := writeOutput(out, []byte("name: hello\n")); err != nil {
		t.Fatalf("writeOutput() error = %v", err)
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("failed to read written file: %v", err)
	}
	if string(got) != "name: hello\n" {
		t.Errorf("writeOutput() wrote %q", got)
	}
}
