// ABOUTME: CLI command that recomputes every stored embedding.
// ABOUTME: Prints per-entry progress and a final indexed/failed/total table.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/2389-research/revibe/internal/indexing"
	"github.com/2389-research/revibe/internal/models"
)

var reindexQuiet bool

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Recompute embeddings for every event",
	Long: `Rebuild the similarity index after changing embedding provider or model.

Each event is embedded once; failures are counted and the run continues.
Interrupting stops between events and keeps the work already done.`,
	RunE: runReindex,
}

func init() {
	rootCmd.AddCommand(reindexCmd)
	reindexCmd.Flags().BoolVarP(&reindexQuiet, "quiet", "q", false, "Only print the final report")
}

func runReindex(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if !reindexQuiet {
		globalReindexer.OnProgress(func(entry *models.Entry, outcome indexing.Outcome, report indexing.Report) {
			mark := "ok"
			if !outcome.OK() {
				mark = "FAILED"
			}
			fmt.Printf("%4d  %-6s %s\n", report.Total, mark, entry.Title)
		})
	}

	report, err := globalService.Reindex(ctx)
	printReport(report)
	if err != nil {
		return fmt.Errorf("reindex stopped early: %w", err)
	}
	return nil
}

func printReport(r indexing.Report) {
	fmt.Println()
	fmt.Println("+---------+-------+")
	fmt.Printf("| %-7s | %5d |\n", "Total", r.Total)
	fmt.Printf("| %-7s | %5d |\n", "Indexed", r.Indexed)
	fmt.Printf("| %-7s | %5d |\n", "Failed", r.Failed)
	fmt.Println("+---------+-------+")
}
