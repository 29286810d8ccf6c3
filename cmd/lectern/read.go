// ABOUTME: Read command for viewing one item's content
// ABOUTME: Renders the excerpt as markdown in the terminal and marks it read

package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"lectern/internal/content"
	"lectern/internal/view"
)

var readCmd = &cobra.Command{
	Use:   "read <item-guid>",
	Short: "Read an item",
	Long:  "Display an item's excerpt and mark it as read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		noMark, _ := cmd.Flags().GetBool("no-mark")
		showNext, _ := cmd.Flags().GetBool("next")

		item, err := st.FindItemByGUID(args[0])
		if err != nil {
			return fmt.Errorf("failed to load item: %w", err)
		}
		if item == nil {
			return fmt.Errorf("item not found: %s", args[0])
		}

		bold := color.New(color.Bold).SprintFunc()
		faint := color.New(color.Faint).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()

		fmt.Println(strings.Repeat("─", 60))
		fmt.Printf("%s\n\n", bold(item.Title))
		fmt.Printf("%s %s\n", faint("Source:"), item.Source)
		fmt.Printf("%s %s\n", faint("Published:"), item.PublishedAt.Format("Mon, 02 Jan 2006 15:04 MST"))
		if item.Link != "" {
			fmt.Printf("%s %s\n", faint("Link:"), cyan(item.Link))
		}
		fmt.Println(strings.Repeat("─", 60))

		if item.Excerpt != "" {
			rendered, styled := content.RenderTerminal(item.Excerpt)
			if !styled {
				fmt.Printf("%s\n\n", faint("(markdown rendering unavailable, showing plain text)"))
			}
			fmt.Print(rendered)
			if !styled {
				fmt.Println()
			}
		} else {
			fmt.Println("\n(No content available)")
		}
		fmt.Println()

		if !noMark {
			if err := st.MarkRead(userID, item.GUID); err != nil {
				return fmt.Errorf("failed to mark item read: %w", err)
			}
			if err := st.MarkSeen(userID, item.GUID); err != nil {
				return fmt.Errorf("failed to mark item seen: %w", err)
			}
			fmt.Printf("%s\n", faint("Marked as read"))
		}

		if showNext {
			next, err := assembler.FindNextItemGUID(view.Query{UserID: userID}, item.GUID)
			if err != nil {
				return fmt.Errorf("failed to find next item: %w", err)
			}
			if next != "" {
				fmt.Printf("%s %s\n", faint("Next:"), next)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(readCmd)

	readCmd.Flags().Bool("no-mark", false, "don't mark the item as read")
	readCmd.Flags().Bool("next", false, "print the GUID of the next item in the timeline")
}
