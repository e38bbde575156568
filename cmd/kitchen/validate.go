package main

import (
	"fmt"

	"github.com/aretw0/kitchen/pkg/catalog"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <catalog-file>",
	Short: "Check a recipe catalog for consistency",
	Long:  `Loads a YAML or JSON catalog and reports duplicate ids or slots, step gaps and misplaced completion steps.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := catalog.Load(args[0])
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Printf("Catalog is valid! %d recipes ✅\n", c.Len())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
