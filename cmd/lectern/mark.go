// ABOUTME: Mark commands for read and bookmark state
// ABOUTME: mark/unmark read status, bookmark/unbookmark items

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var markCmd = &cobra.Command{
	Use:   "mark <item-guid>...",
	Short: "Mark items as read",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := st.MarkManyRead(userID, args); err != nil {
			return fmt.Errorf("failed to mark items read: %w", err)
		}
		if err := st.MarkManySeen(userID, args); err != nil {
			return fmt.Errorf("failed to mark items seen: %w", err)
		}
		fmt.Printf("Marked %d items as read\n", len(args))
		return nil
	},
}

var unmarkCmd = &cobra.Command{
	Use:   "unmark <item-guid>...",
	Short: "Mark items as unread",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, guid := range args {
			if err := st.UnmarkRead(userID, guid); err != nil {
				return fmt.Errorf("failed to unmark item: %w", err)
			}
		}
		fmt.Printf("Marked %d items as unread\n", len(args))
		return nil
	},
}

var bookmarkCmd = &cobra.Command{
	Use:     "bookmark <item-guid>",
	Aliases: []string{"save"},
	Short:   "Bookmark an item",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := st.MarkBookmarked(userID, args[0]); err != nil {
			return fmt.Errorf("failed to bookmark item: %w", err)
		}
		fmt.Println("Bookmarked")
		return nil
	},
}

var unbookmarkCmd = &cobra.Command{
	Use:   "unbookmark <item-guid>",
	Short: "Remove a bookmark",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := st.UnmarkBookmarked(userID, args[0]); err != nil {
			return fmt.Errorf("failed to remove bookmark: %w", err)
		}
		fmt.Println("Bookmark removed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(markCmd)
	rootCmd.AddCommand(unmarkCmd)
	rootCmd.AddCommand(bookmarkCmd)
	rootCmd.AddCommand(unbookmarkCmd)
}
