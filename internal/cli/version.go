package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaml-extend/yaml-extend-sub001/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Full())
	},
}
