// ABOUTME: Feeds command listing subscriptions with refresh health
// ABOUTME: Shows status, folder, and item counts per subscription

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"lectern/internal/models"
)

var feedsCmd = &cobra.Command{
	Use:     "feeds",
	Aliases: []string{"subscriptions"},
	Short:   "List subscriptions",
	RunE: func(cmd *cobra.Command, args []string) error {
		subs, err := st.ListSubscriptions(userID)
		if err != nil {
			return fmt.Errorf("failed to list subscriptions: %w", err)
		}
		if len(subs) == 0 {
			fmt.Println("No subscriptions")
			return nil
		}

		faint := color.New(color.Faint).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()
		green := color.New(color.FgGreen).SprintFunc()

		for _, sub := range subs {
			count, err := st.CountItemsBySubscription(sub.GUID)
			if err != nil {
				return fmt.Errorf("failed to count items: %w", err)
			}

			fmt.Print(faint(sub.GUID))
			switch sub.Status {
			case models.StatusSuccess:
				fmt.Printf(" %s", green("ok"))
			case models.StatusPending:
				fmt.Printf(" %s", faint("pending"))
			default:
				fmt.Printf(" %s", red(string(sub.Status)))
			}
			fmt.Printf(" %s", sub.Name)
			if sub.Folder != "" {
				fmt.Printf(" %s", faint("["+sub.Folder+"]"))
			}
			fmt.Printf(" %s", faint(fmt.Sprintf("%d items", count)))
			if sub.LastRefreshedAt != nil {
				fmt.Printf(" %s", faint(sub.LastRefreshedAt.Format("02 Jan 15:04")))
			}
			fmt.Println()
		}
		return nil
	},
}

var renameCmd = &cobra.Command{
	Use:   "rename <subscription-guid> <name>",
	Short: "Rename a subscription",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := st.UpdateSubscriptionName(userID, args[0], args[1]); err != nil {
			return fmt.Errorf("failed to rename subscription: %w", err)
		}
		fmt.Println("Renamed")
		return nil
	},
}

var folderCmd = &cobra.Command{
	Use:   "folder <subscription-guid> <folder>",
	Short: "Move a subscription to a folder",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := st.UpdateSubscriptionFolder(userID, args[0], args[1]); err != nil {
			return fmt.Errorf("failed to move subscription: %w", err)
		}
		fmt.Println("Moved")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(feedsCmd)
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(folderCmd)
}
