// ABOUTME: CLI commands for journal events and their attachments.
// ABOUTME: Provides event add/list/show/delete/share plus identify, learn, and similar.
package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/2389-research/revibe/internal/journal"
	"github.com/2389-research/revibe/internal/models"
	"github.com/2389-research/revibe/internal/storage"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Manage journal events",
	Long:  "Record, list, read, share, and delete reflective journal events.",
}

var eventAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record an event",
	RunE:  runEventAdd,
}

var eventListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your events, newest first",
	RunE:  runEventList,
}

var eventShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one event",
	Args:  cobra.ExactArgs(1),
	RunE:  runEventShow,
}

var eventDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an event with its identification, learning, and comments",
	Args:  cobra.ExactArgs(1),
	RunE:  runEventDelete,
}

var eventShareCmd = &cobra.Command{
	Use:   "share <id>",
	Short: "Make an event public on the community feed",
	Args:  cobra.ExactArgs(1),
	RunE:  runEventShare,
}

var identifyCmd = &cobra.Command{
	Use:   "identify <event-id>",
	Short: "Attach an identification to an event",
	Long:  "Tag an event with a category and the assumptions behind it. The event is then indexed for similarity search.",
	Args:  cobra.ExactArgs(1),
	RunE:  runIdentify,
}

var learnCmd = &cobra.Command{
	Use:   "learn <event-id>",
	Short: "Attach a learning to an identified event",
	Args:  cobra.ExactArgs(1),
	RunE:  runLearn,
}

var similarCmd = &cobra.Command{
	Use:   "similar <event-id>",
	Short: "Find your most similar past reflections",
	Args:  cobra.ExactArgs(1),
	RunE:  runSimilar,
}

// Flags
var (
	eventInput   journal.EntryInput
	identInput   journal.IdentificationInput
	learnInput   journal.LearningInput
	listLimit    int
	listOffset   int
	similarLimit int
)

func init() {
	rootCmd.AddCommand(eventCmd, identifyCmd, learnCmd, similarCmd)
	eventCmd.AddCommand(eventAddCmd, eventListCmd, eventShowCmd, eventDeleteCmd, eventShareCmd)

	f := eventAddCmd.Flags()
	f.StringVar(&eventInput.Title, "title", "", "Short title (required)")
	f.StringVar(&eventInput.Description, "description", "", "What happened (required)")
	f.IntVar(&eventInput.Severity, "severity", 3, "Emotional severity, 1 to 5")
	f.StringVar(&eventInput.Triggers, "triggers", "", "What set it off")
	f.StringVar(&eventInput.Focus, "focus", "", "What to focus on")
	f.StringVar(&eventInput.Location, "location", "", "Where it happened")
	f.StringVar(&eventInput.PeoplePresent, "people", "", "Who was there")

	eventListCmd.Flags().IntVar(&listLimit, "limit", 10, "Maximum number of events to show")
	eventListCmd.Flags().IntVar(&listOffset, "offset", 0, "Number of events to skip")

	f = identifyCmd.Flags()
	f.StringVar(&identInput.Tag, "tag", "", "Short label for the pattern (required)")
	f.StringVar(&identInput.MainCategory, "category", "", "Main category, as listed by the categories command")
	f.StringVar(&identInput.SubCategory, "subcategory", "", "Subcategory within the main category")
	f.StringVar(&identInput.Assumptions.WhatAssumptions, "assumptions", "", "What you assumed")
	f.StringVar(&identInput.Assumptions.IgnoredInformation, "ignored", "", "Information you ignored")
	f.StringVar(&identInput.Assumptions.ProtectedBeliefs, "protected", "", "Beliefs you were protecting")

	f = learnCmd.Flags()
	f.StringVar(&learnInput.ActionPlan, "plan", "", "What you will do differently (required)")
	f.StringVar(&learnInput.NextTimeStrategy, "next-time", "", "Strategy for next time")
	f.StringVar(&learnInput.Resources, "resources", "", "Helpful resources")

	similarCmd.Flags().IntVar(&similarLimit, "limit", 5, "Maximum number of results")
}

func runEventAdd(cmd *cobra.Command, args []string) error {
	user, err := currentUser()
	if err != nil {
		return err
	}
	entry, err := globalService.CreateEntry(cmdContext(cmd), user, eventInput)
	if err != nil {
		return fmt.Errorf("failed to record event: %w", err)
	}
	fmt.Printf("Event recorded: %s\n", entry.ID)
	return nil
}

func runEventList(cmd *cobra.Command, args []string) error {
	user, err := currentUser()
	if err != nil {
		return err
	}
	entries, err := globalService.ListEntries(cmdContext(cmd), user, storage.ListOptions{Limit: listLimit, Offset: listOffset})
	if err != nil {
		return fmt.Errorf("failed to list events: %w", err)
	}
	if len(entries) == 0 {
		fmt.Println("No events found.")
		return nil
	}
	for _, e := range entries {
		marker := " "
		if e.HasEmbedding() {
			marker = "*"
		}
		fmt.Printf("%s %s  %s  %s\n", marker, e.CreatedAt.Format("2006-01-02 15:04"), e.ID, e.Title)
	}
	fmt.Println("\n* indexed for similarity search")
	return nil
}

func runEventShow(cmd *cobra.Command, args []string) error {
	user, id, err := userAndID(args[0])
	if err != nil {
		return err
	}
	e, err := globalService.GetEntry(cmdContext(cmd), user, id)
	if err != nil {
		return fmt.Errorf("failed to read event: %w", err)
	}

	fmt.Printf("%s\n%s\n", e.Title, strings.Repeat("=", len(e.Title)))
	fmt.Printf("ID:       %s\n", e.ID)
	fmt.Printf("Date:     %s\n", e.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Severity: %d\n", e.Severity)
	fmt.Printf("Public:   %t\n", e.IsPublic)
	fmt.Printf("Indexed:  %t\n\n", e.HasEmbedding())
	fmt.Println(e.Description)

	if ident := e.Identification; ident != nil {
		fmt.Printf("\nIdentification: %s\n", ident.Tag)
		if ident.MainCategory != "" {
			fmt.Printf("  Category: %s\n", models.CategoryLabel(ident.MainCategory))
		}
		for _, v := range ident.Assumptions.Data().Values() {
			fmt.Printf("  - %s\n", v)
		}
	}
	if l := e.Learning; l != nil {
		fmt.Printf("\nLearning: %s\n", l.ActionPlan)
		if l.NextTimeStrategy != "" {
			fmt.Printf("  Next time: %s\n", l.NextTimeStrategy)
		}
	}
	return nil
}

func runEventDelete(cmd *cobra.Command, args []string) error {
	user, id, err := userAndID(args[0])
	if err != nil {
		return err
	}
	if err := globalService.DeleteEntry(cmdContext(cmd), user, id); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	fmt.Printf("Event deleted: %s\n", id)
	return nil
}

func runEventShare(cmd *cobra.Command, args []string) error {
	user, id, err := userAndID(args[0])
	if err != nil {
		return err
	}
	if _, err := globalService.SetPublic(cmdContext(cmd), user, id, true); err != nil {
		return fmt.Errorf("failed to share event: %w", err)
	}
	fmt.Printf("Event shared: %s\n", id)
	return nil
}

func runIdentify(cmd *cobra.Command, args []string) error {
	user, id, err := userAndID(args[0])
	if err != nil {
		return err
	}
	ident, err := globalService.CreateIdentification(cmdContext(cmd), user, id, identInput)
	if err != nil {
		return fmt.Errorf("failed to identify event: %w", err)
	}
	fmt.Printf("Identification added: %s\n", ident.Tag)
	return nil
}

func runLearn(cmd *cobra.Command, args []string) error {
	user, id, err := userAndID(args[0])
	if err != nil {
		return err
	}
	if _, err := globalService.CreateLearning(cmdContext(cmd), user, id, learnInput); err != nil {
		return fmt.Errorf("failed to add learning: %w", err)
	}
	fmt.Println("Learning added.")
	return nil
}

func runSimilar(cmd *cobra.Command, args []string) error {
	user, id, err := userAndID(args[0])
	if err != nil {
		return err
	}
	results, err := globalService.FindSimilar(cmdContext(cmd), user, id, similarLimit)
	if err != nil {
		return fmt.Errorf("failed to find similar reflections: %w", err)
	}
	if len(results) == 0 {
		fmt.Println("No similar reflections found.")
		return nil
	}
	for i, r := range results {
		category := ""
		if r.Category != nil {
			category = " [" + models.CategoryLabel(*r.Category) + "]"
		}
		fmt.Printf("%d. %.3f  %s%s\n   %s\n", i+1, r.Score, r.Title, category, r.ID)
	}
	return nil
}

func userAndID(raw string) (string, uuid.UUID, error) {
	user, err := currentUser()
	if err != nil {
		return "", uuid.Nil, err
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", uuid.Nil, fmt.Errorf("invalid event id %q", raw)
	}
	return user, id, nil
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
