// Command yamlext compiles an extended-YAML module from the command line.
package main

import (
	"os"

	"github.com/yaml-extend/yaml-extend-sub001/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
