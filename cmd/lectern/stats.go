// ABOUTME: Stats command summarizing the user's reading state
// ABOUTME: Subscription count, item totals, and refresh recency edges

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show subscription and item statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		subs, err := st.ListSubscriptions(userID)
		if err != nil {
			return fmt.Errorf("failed to list subscriptions: %w", err)
		}

		totalItems := 0
		for _, sub := range subs {
			count, err := st.CountItemsBySubscription(sub.GUID)
			if err != nil {
				return fmt.Errorf("failed to count items: %w", err)
			}
			totalItems += count
		}

		readSet, err := st.GetReadGUIDs(userID, nil)
		if err != nil {
			return fmt.Errorf("failed to load read set: %w", err)
		}
		bookmarkSet, err := st.GetBookmarkedGUIDs(userID, nil)
		if err != nil {
			return fmt.Errorf("failed to load bookmark set: %w", err)
		}

		faint := color.New(color.Faint).SprintFunc()
		fmt.Printf("%s %d\n", faint("Subscriptions:"), len(subs))
		fmt.Printf("%s %d\n", faint("Items:"), totalItems)
		fmt.Printf("%s %d\n", faint("Read:"), len(readSet))
		fmt.Printf("%s %d\n", faint("Bookmarked:"), len(bookmarkSet))

		oldest, err := st.GetOldestRefreshTime(userID)
		if err != nil {
			return fmt.Errorf("failed to load refresh times: %w", err)
		}
		latest, err := st.GetLatestRefreshTime(userID)
		if err != nil {
			return fmt.Errorf("failed to load refresh times: %w", err)
		}
		if oldest == nil || latest == nil {
			fmt.Printf("%s never (some feeds not yet refreshed)\n", faint("Refreshed:"))
			return nil
		}
		fmt.Printf("%s %s %s %s\n",
			faint("Refreshed:"),
			oldest.Format("02 Jan 15:04"),
			faint("to"),
			latest.Format("02 Jan 15:04"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
