package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaml-extend/yaml-extend-sub001/internal/logger"
	"github.com/yaml-extend/yaml-extend-sub001/internal/version"
)

var (
	// Global flags
	verbose bool

	// Global logger, initialized in PersistentPreRun
	log logger.Logger

	// Compile flags (shared between root and compile subcommand)
	basePath      string
	unsafeImports bool
	output        string
	check         bool
	format        string
	indent        int
	paramFlags    []string
	ignorePrivate []string
	ignoreTags    bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "yamlext FILE",
	Short: "Compile an extended-YAML module into a fully resolved document",
	Long: `yamlext compiles a module - YAML plus a small directive and scalar
expression layer - into a single resolved document.

A module is ordinary YAML preceded by an optional block of directive lines
(%FILENAME, %YAML, %TAG, %IMPORT, %PARAM, %LOCAL, %PRIVATE), whose body may
reference other parts of the document, imported modules, and caller-supplied
parameters through a small scalar expression language.

Examples:
  yamlext service.yaml                     # Compile and print to stdout (YAML)
  yamlext service.yaml -o out.yaml         # Compile to file
  yamlext service.yaml --format json       # Output as JSON
  yamlext service.yaml --param env=prod    # Supply a %PARAM value
  yamlext service.yaml -o out.yaml --check # Verify output matches file`,
	Args: cobra.MaximumNArgs(1),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Initialize logger based on global verbose flag. Always writes to
		// stderr to avoid interfering with stdout output.
		log = logger.New(os.Stderr, verbose)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion, _ := cmd.Flags().GetBool("version"); showVersion {
			fmt.Println(version.Full())
			return nil
		}
		if len(args) == 0 {
			return fmt.Errorf("missing FILE argument")
		}
		return runCompile(cmd, args[0])
	},
}

// Execute adds all child commands to the root command and runs it. It is
// called once by main.main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags (persistent = available to all subcommands)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Show debug output (applies to all commands)")

	// Compile flags (persistent = available to root and compile subcommand)
	rootCmd.PersistentFlags().StringVar(&basePath, "base-path", "",
		"Sandbox root every import must resolve under (default: current working directory)")
	rootCmd.PersistentFlags().BoolVar(&unsafeImports, "unsafe", false,
		"Disable the import sandbox check entirely")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "",
		"Write output to file (default: stdout)")
	rootCmd.PersistentFlags().BoolVarP(&check, "check", "c", false,
		"Compare generated output to --output, exit non-zero if different")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", "yaml",
		"Output format: yaml or json")
	rootCmd.PersistentFlags().IntVar(&indent, "indent", 2,
		"Number of spaces for indentation")
	rootCmd.PersistentFlags().StringArrayVar(&paramFlags, "param", nil,
		"A key=value pair supplied as a %PARAM value (repeatable)")
	rootCmd.PersistentFlags().StringArrayVar(&ignorePrivate, "ignore-private", nil,
		`Filenames whose %PRIVATE nodes should be stripped from the output ("all" or "current" also accepted)`)
	rootCmd.PersistentFlags().BoolVar(&ignoreTags, "ignore-tags", false,
		"Skip tag resolution; tagged nodes resolve as if untagged")

	// Version flag
	rootCmd.Flags().BoolP("version", "V", false,
		"Print version information and exit")

	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(versionCmd)
}
