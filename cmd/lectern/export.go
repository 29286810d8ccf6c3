// ABOUTME: Export command writing subscriptions as OPML
// ABOUTME: Folders become nested outlines readable by other feed readers

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lectern/internal/opml"
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export subscriptions as OPML",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		subs, err := st.ListSubscriptions(userID)
		if err != nil {
			return fmt.Errorf("failed to list subscriptions: %w", err)
		}

		doc := opml.NewDocument("lectern feeds")
		for _, sub := range subs {
			doc.AddFeed(sub.Name, sub.URL, sub.Folder)
		}

		if len(args) == 1 {
			if err := doc.WriteFile(args[0]); err != nil {
				return fmt.Errorf("failed to write OPML: %w", err)
			}
			fmt.Printf("Exported %d subscriptions to %s\n", len(subs), args[0])
			return nil
		}

		data, err := doc.Write()
		if err != nil {
			return fmt.Errorf("failed to render OPML: %w", err)
		}
		os.Stdout.Write(data)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
