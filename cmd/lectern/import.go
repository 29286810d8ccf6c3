// ABOUTME: Import command reconciling subscriptions against a manifest
// ABOUTME: Accepts YAML manifests and OPML exports from other readers

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"lectern/internal/importer"
	"lectern/internal/opml"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import subscriptions from a YAML manifest or OPML file",
	Long: `Reconcile subscriptions against a manifest: feeds in the file are
added, feeds missing from it are removed. The whole file is validated
before anything is written.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		var records []importer.Record
		if strings.HasSuffix(path, ".opml") || strings.HasSuffix(path, ".xml") {
			doc, err := opml.ParseFile(path)
			if err != nil {
				return fmt.Errorf("failed to parse OPML: %w", err)
			}
			records = importer.RecordsFromOPML(doc)
		} else {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read manifest: %w", err)
			}
			records, err = importer.ParseYAML(data)
			if err != nil {
				return err
			}
		}

		im := importer.New(st, cfg.AllowPrivateHosts)
		result, err := im.Reconcile(userID, records)
		if err != nil {
			return err
		}

		fmt.Printf("Imported: %d added, %d kept, %d removed\n", result.Added, result.Kept, result.Removed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
