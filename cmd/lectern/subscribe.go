// ABOUTME: Subscribe command resolving arbitrary URLs to feeds
// ABOUTME: Registers the subscription and runs an immediate first refresh

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"lectern/internal/guid"
)

var subscribeCmd = &cobra.Command{
	Use:     "subscribe <url>",
	Aliases: []string{"sub", "add"},
	Short:   "Subscribe to a feed",
	Long:    "Resolve a URL (feed, site, subreddit, YouTube channel) to a feed and subscribe to it",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		folder, _ := cmd.Flags().GetString("folder")
		noFetch, _ := cmd.Flags().GetBool("no-fetch")

		resolution, err := resolver.Resolve(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to resolve URL: %w", err)
		}

		faint := color.New(color.Faint).SprintFunc()
		if resolution.FeedURL != args[0] {
			fmt.Printf("%s %s %s\n", faint("Resolved via"), resolution.Resolver, faint("to "+resolution.FeedURL))
		}

		named := name != ""
		if name == "" {
			name = resolution.FeedURL
		}
		feedGUID := guid.Hash16(resolution.FeedURL)
		sub, err := st.AddSubscription(userID, resolution.FeedURL, name, feedGUID)
		if err != nil {
			return fmt.Errorf("failed to subscribe: %w", err)
		}
		if folder != "" {
			if err := st.UpdateSubscriptionFolder(userID, sub.GUID, folder); err != nil {
				return fmt.Errorf("failed to set folder: %w", err)
			}
		}

		fmt.Printf("Subscribed to %s %s\n", sub.URL, faint(sub.GUID))

		if noFetch {
			return nil
		}
		outcome, err := orchestrator.RefreshFeed(cmd.Context(), sub.URL)
		if err != nil {
			fmt.Printf("%s %v\n", faint("Initial fetch failed:"), err)
			return nil
		}
		// Without an explicit --name, the feed's own title becomes the name.
		if !named && outcome.Title != "" {
			if err := st.UpdateSubscriptionName(userID, sub.GUID, outcome.Title); err != nil {
				return fmt.Errorf("failed to set subscription name: %w", err)
			}
			fmt.Printf("%s %s\n", faint("Named"), outcome.Title)
		}
		fmt.Printf("Fetched %d items\n", outcome.Items)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(subscribeCmd)

	subscribeCmd.Flags().StringP("name", "n", "", "display name for the subscription")
	subscribeCmd.Flags().StringP("folder", "f", "", "folder to file the subscription under")
	subscribeCmd.Flags().Bool("no-fetch", false, "skip the immediate first refresh")
}
