package version

import (
	"fmt"

	"github.com/spf13/cobra"
)

var version = "v1.0.0"

// Cmd represents the version command
var Cmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of ytdlbot",
	Long:  `All software has versions. This is ytdlbot's.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		printVersion()
		return nil
	},
}

func printVersion() {
	fmt.Println(version)
}
