package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/kitchen"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of kitchen",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("kitchen version %s\n", strings.TrimSpace(kitchen.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
