package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// getFlag reads a boolean flag, exiting on a misconfigured flag set (a
// programming error, not user input).
func getFlag(cmd *cobra.Command, name string) bool {
	r, err := cmd.Flags().GetBool(name)
	if err != nil {
		fmt.Println(err)
		os.Exit(3)
	}
	return r
}

// getString reads a string flag, exiting on a misconfigured flag set.
func getString(cmd *cobra.Command, name string) string {
	r, err := cmd.Flags().GetString(name)
	if err != nil {
		fmt.Println(err)
		os.Exit(3)
	}
	return r
}
