// Package sandbox verifies that a module path lexically resolves inside a
// confinement root before anything is read from disk (spec.md §3.3, §6.1
// "unsafe"). Grounded on internal/include's os.Root-based confinement
// check and internal/filetree's dotfile/extension filtering, both adapted
// from CircleCI CLI's process/filetree packages; generalized here from a
// fixed "pack root" to an arbitrary per-compile basePath and from
// include-statements to %IMPORT paths.
package sandbox

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrOutOfScope is returned when a resolved path would escape basePath
// and unsafe mode is not enabled.
type ErrOutOfScope struct {
	Path     string
	BasePath string
}

func (e *ErrOutOfScope) Error() string {
	return fmt.Sprintf("out of scope of base path: %s is not under %s", e.Path, e.BasePath)
}

// Resolve canonicalises importPath against fromDir (the directory of the
// importing module, not basePath — relative imports are resolved
// relative to the current module, spec.md §4.6.3) and, unless unsafe is
// set, verifies the result stays lexically under basePath. It returns
// the canonical absolute path.
func Resolve(importPath, fromDir, basePath string, unsafe bool) (string, error) {
	var abs string
	if filepath.IsAbs(importPath) {
		abs = filepath.Clean(importPath)
	} else {
		abs = filepath.Clean(filepath.Join(fromDir, importPath))
	}

	if unsafe {
		return abs, nil
	}

	absBase, err := filepath.Abs(basePath)
	if err != nil {
		return "", fmt.Errorf("could not resolve base path %s: %w", basePath, err)
	}

	rel, err := filepath.Rel(absBase, abs)
	if err != nil {
		return "", fmt.Errorf("could not determine relative path for %s: %w", importPath, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", &ErrOutOfScope{Path: abs, BasePath: absBase}
	}

	// os.Root gives a second, OS-enforced containment guarantee beyond
	// the lexical check above (symlink escapes, TOCTOU races).
	root, err := os.OpenRoot(absBase)
	if err != nil {
		return "", fmt.Errorf("could not open base path %s: %w", basePath, err)
	}
	defer func() { _ = root.Close() }()
	if _, err := root.Stat(rel); err != nil {
		return "", fmt.Errorf("could not open %s for import", importPath)
	}

	return abs, nil
}

// ValidExtension reports whether path ends in .yaml or .yml, the only
// extensions a module file may carry (mirrors internal/filetree's isYaml
// check).
func ValidExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// IsDotfile reports whether the base name of path begins with '.' — such
// paths are never valid module targets (mirrors internal/filetree's
// dotfile check).
func IsDotfile(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") && base != "." && base != ".."
}

// ReadModule resolves and reads a module's source, applying extension and
// dotfile checks before the sandbox-containment check in Resolve.
func ReadModule(importPath, fromDir, basePath string, unsafe bool) (canonicalPath string, source []byte, err error) {
	if IsDotfile(importPath) {
		return "", nil, fmt.Errorf("module path is a dotfile: %s", importPath)
	}
	if !ValidExtension(importPath) {
		return "", nil, fmt.Errorf("module path must end in .yaml or .yml: %s", importPath)
	}
	abs, err := Resolve(importPath, fromDir, basePath, unsafe)
	if err != nil {
		return "", nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return "", nil, fmt.Errorf("could not read module %s: %w", importPath, err)
	}
	return abs, data, nil
}
