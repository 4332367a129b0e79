package yamlext

import "errors"

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for specific errors:
//
//	result, err := yamlext.Compile(ctx, nil, source, yamlext.Options{...})
//	if err != nil {
//		if errors.Is(err, yamlext.ErrSourceRequired) {
//			// Handle missing source
//		}
//	}
var (
	// ErrFilepathRequired is not returned by Compile: when
	// Options.Filepath is empty, %IMPORT paths resolve against BasePath
	// and the module is compiled without caching.
	ErrFilepathRequired = errors.New("filepath is required")

	// ErrInvalidIgnorePrivate is not returned by Compile: any
	// IgnorePrivate value other than "all" or "current" is taken as a
	// list of filenames.
	ErrInvalidIgnorePrivate = errors.New("invalid ignorePrivate value")

	// ErrStateDestroyed is returned when a Compile call is made against a
	// State that has already been destroyed.
	ErrStateDestroyed = errors.New("state has been destroyed")

	// ErrSourceRequired is returned when neither source text nor a
	// resolvable Filepath was supplied.
	ErrSourceRequired = errors.New("source is required")

	// ErrInvalidFormat is returned by ParseFormat on an unrecognised
	// format string.
	ErrInvalidFormat = errors.New("invalid format")
)
