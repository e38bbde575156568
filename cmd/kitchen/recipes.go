package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/aretw0/kitchen/internal/cli"
	"github.com/spf13/cobra"
)

var recipesCmd = &cobra.Command{
	Use:   "recipes",
	Short: "List the recipes in the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		recipes, err := cli.LoadCatalog(cfg.CatalogPath)
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(recipes.Recipes())
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tSTEPS\tSAY")
		for _, r := range recipes.Recipes() {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", r.ID, r.Title, len(r.Steps), strings.Join(r.Slots, ", "))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(recipesCmd)
	recipesCmd.Flags().Bool("json", false, "Print the catalog as JSON")
}
