// ABOUTME: Prune command running the retention sweep
// ABOUTME: Deletes items older than the configured retention window

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete items older than the retention window",
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")
		window := cfg.RetentionWindow()
		if days > 0 {
			window = time.Duration(days) * 24 * time.Hour
		}

		deleted, err := st.DeleteItemsOlderThan(time.Now().Add(-window))
		if err != nil {
			return fmt.Errorf("failed to prune items: %w", err)
		}
		fmt.Printf("Pruned %d items\n", deleted)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pruneCmd)

	pruneCmd.Flags().Int("days", 0, "override retention window in days")
}
