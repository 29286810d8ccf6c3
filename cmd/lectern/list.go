// ABOUTME: List command for viewing the item timeline with filters
// ABOUTME: Displays items with status markers and marks displayed items seen

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"lectern/internal/models"
	"lectern/internal/view"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List feed items",
	Long:    "List items across subscriptions, newest first, with optional filtering",
	RunE: func(cmd *cobra.Command, args []string) error {
		feedGUID, _ := cmd.Flags().GetString("feed")
		unread, _ := cmd.Flags().GetBool("unread")
		bookmarks, _ := cmd.Flags().GetBool("bookmarks")
		limit, _ := cmd.Flags().GetInt("limit")
		keepNew, _ := cmd.Flags().GetBool("keep-new")

		data, err := assembler.GetViewData(view.Query{
			UserID:           userID,
			SubscriptionGUID: feedGUID,
			UnreadOnly:       unread,
			BookmarksOnly:    bookmarks,
			Limit:            limit,
		})
		if err != nil {
			return fmt.Errorf("failed to list items: %w", err)
		}
		if len(data.Items) == 0 {
			fmt.Println("No items found")
			return nil
		}

		faint := color.New(color.Faint).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()

		for _, item := range data.Items {
			fmt.Print(faint(item.GUID))
			if item.IsRead {
				fmt.Print(" ✓")
			} else {
				fmt.Print("  ")
			}
			if item.IsNew {
				fmt.Print(yellow(" ●"))
			} else {
				fmt.Print("  ")
			}
			if item.IsBookmarked {
				fmt.Print(" ★")
			} else {
				fmt.Print("  ")
			}
			fmt.Printf(" %s", item.Title)
			fmt.Printf(" %s", faint(item.SubscriptionName))
			fmt.Printf(" %s\n", faint(item.PublishedAt.Format("02 Jan 06 15:04")))
		}

		// Listing counts as seeing; the NEW marker shows once per item.
		if !keepNew {
			guids := lo.Map(data.Items, func(v models.ItemView, _ int) string { return v.GUID })
			if err := st.MarkManySeen(userID, guids); err != nil {
				return fmt.Errorf("failed to mark items seen: %w", err)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringP("feed", "f", "", "filter by subscription GUID")
	listCmd.Flags().Bool("unread", false, "show only unread items")
	listCmd.Flags().BoolP("bookmarks", "b", false, "show only bookmarked items")
	listCmd.Flags().IntP("limit", "n", 50, "max items to show (0 for all)")
	listCmd.Flags().Bool("keep-new", false, "don't mark displayed items as seen")

	listCmd.MarkFlagsMutuallyExclusive("unread", "bookmarks")
}
