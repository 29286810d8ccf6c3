// ABOUTME: Refresh command running one ingestion cycle
// ABOUTME: Fetches every distinct subscribed URL through the worker pool

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var refreshCmd = &cobra.Command{
	Use:     "refresh",
	Aliases: []string{"sync"},
	Short:   "Fetch new items for all subscribed feeds",
	RunE: func(cmd *cobra.Command, args []string) error {
		urls, err := st.ListFeedURLs()
		if err != nil {
			return fmt.Errorf("failed to list feeds: %w", err)
		}
		if len(urls) == 0 {
			fmt.Println("No subscriptions")
			return nil
		}

		count := orchestrator.RefreshAll(cmd.Context(), urls)
		fmt.Printf("Refreshed %d feeds, %d items\n", len(urls), count)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}
