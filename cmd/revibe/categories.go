// ABOUTME: CLI command that prints the category taxonomy.
// ABOUTME: Runs without opening the database.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/2389-research/revibe/internal/models"
)

var showSubcategories bool

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List categories for identifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, c := range models.Categories() {
			fmt.Printf("%-20s %s\n", c.Value, c.Label)
			if !showSubcategories {
				continue
			}
			for _, s := range c.Subcategories {
				fmt.Printf("  %-32s %s (severity %d)\n", s.Value, s.Label, s.Severity)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
	categoriesCmd.Flags().BoolVarP(&showSubcategories, "all", "a", false, "Include subcategories")
}
