// ABOUTME: Unsubscribe command removing a feed registration
// ABOUTME: Drops the feed's items once no user subscribes to it anymore

package main

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"lectern/internal/guid"
)

var unsubscribeCmd = &cobra.Command{
	Use:     "unsubscribe <guid-or-url>",
	Aliases: []string{"unsub", "rm"},
	Short:   "Unsubscribe from a feed",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sub, err := st.GetSubscription(userID, args[0])
		if err != nil {
			return fmt.Errorf("failed to look up subscription: %w", err)
		}
		if sub == nil {
			sub, err = st.GetSubscriptionByURL(userID, args[0])
			if err != nil {
				return fmt.Errorf("failed to look up subscription: %w", err)
			}
		}
		if sub == nil {
			// Raw URLs that were never resolved still map to a GUID.
			sub, err = st.GetSubscription(userID, guid.Hash16(args[0]))
			if err != nil {
				return fmt.Errorf("failed to look up subscription: %w", err)
			}
		}
		if sub == nil {
			return fmt.Errorf("subscription not found: %s", args[0])
		}

		if err := st.RemoveSubscription(userID, sub.GUID); err != nil {
			return fmt.Errorf("failed to unsubscribe: %w", err)
		}

		urls, err := st.ListFeedURLs()
		if err != nil {
			return fmt.Errorf("failed to list feeds: %w", err)
		}
		if !lo.Contains(urls, sub.URL) {
			if err := st.DeleteItemsBySubscription(sub.GUID); err != nil {
				return fmt.Errorf("failed to remove feed items: %w", err)
			}
		}

		fmt.Printf("Unsubscribed from %s\n", sub.URL)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(unsubscribeCmd)
}
