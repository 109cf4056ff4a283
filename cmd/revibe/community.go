// ABOUTME: CLI commands for the shared community feed and comments.
// ABOUTME: Provides community, comment add, and comment list subcommands.
package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/2389-research/revibe/internal/journal"
	"github.com/2389-research/revibe/internal/models"
	"github.com/2389-research/revibe/internal/storage"
)

var communityCmd = &cobra.Command{
	Use:   "community",
	Short: "Read events people have shared",
	RunE:  runCommunity,
}

var commentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Comment on shared events",
}

var commentAddCmd = &cobra.Command{
	Use:   "add <target-id> <text>",
	Short: "Comment on an event or identification",
	Args:  cobra.ExactArgs(2),
	RunE:  runCommentAdd,
}

var commentListCmd = &cobra.Command{
	Use:   "list <target-id>",
	Short: "List comments on an event or identification",
	Args:  cobra.ExactArgs(1),
	RunE:  runCommentList,
}

// Flags
var (
	communityLimit  int
	communityOffset int
	commentOn       string
	commentAuthor   string
)

func init() {
	rootCmd.AddCommand(communityCmd, commentCmd)
	commentCmd.AddCommand(commentAddCmd, commentListCmd)

	communityCmd.Flags().IntVar(&communityLimit, "limit", journal.DefaultCommunityLimit, "Maximum number of events")
	communityCmd.Flags().IntVar(&communityOffset, "offset", 0, "Number of events to skip")

	for _, c := range []*cobra.Command{commentAddCmd, commentListCmd} {
		c.Flags().StringVar(&commentOn, "on", models.CommentOnEvent, "Target type: event or identification")
	}
	commentAddCmd.Flags().StringVar(&commentAuthor, "as", "", "Display name (default: mcp.author_name)")
}

func runCommunity(cmd *cobra.Command, args []string) error {
	entries, err := globalService.Community(cmdContext(cmd), storage.ListOptions{Limit: communityLimit, Offset: communityOffset})
	if err != nil {
		return fmt.Errorf("failed to read community: %w", err)
	}
	if len(entries) == 0 {
		fmt.Println("No shared events yet.")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s  %s\n  %s\n", e.CreatedAt.Format("2006-01-02 15:04"), e.Title, e.ID)
	}
	return nil
}

func runCommentAdd(cmd *cobra.Command, args []string) error {
	user, target, err := userAndID(args[0])
	if err != nil {
		return err
	}
	author := commentAuthor
	if author == "" {
		author = globalConfig.MCP.AuthorName
	}

	comment, err := globalService.AddComment(cmdContext(cmd), user, author, journal.CommentInput{
		CommentableType: commentOn,
		CommentableID:   target,
		Content:         args[1],
	})
	if err != nil {
		return fmt.Errorf("failed to add comment: %w", err)
	}
	fmt.Printf("Comment posted: %s\n", comment.ID)
	return nil
}

func runCommentList(cmd *cobra.Command, args []string) error {
	user, err := currentUser()
	if err != nil {
		return err
	}
	target, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid target id %q", args[0])
	}

	comments, err := globalService.ListComments(cmdContext(cmd), user, commentOn, target)
	if err != nil {
		return fmt.Errorf("failed to list comments: %w", err)
	}
	if len(comments) == 0 {
		fmt.Println("No comments.")
		return nil
	}
	for _, c := range comments {
		author := c.AuthorName
		if author == "" {
			author = c.UserID
		}
		fmt.Printf("%s  %s: %s\n", c.CreatedAt.Format("2006-01-02 15:04"), author, c.Content)
	}
	return nil
}
