package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

// VersionCmd prints the build version.
func VersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("cookai %s\n", version)
		},
	}
}
