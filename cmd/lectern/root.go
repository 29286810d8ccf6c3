// ABOUTME: Root Cobra command and global flags
// ABOUTME: Loads config, opens the store, and wires the pipeline components

package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"lectern/internal/config"
	"lectern/internal/feed"
	"lectern/internal/fetch"
	"lectern/internal/parse"
	"lectern/internal/resolve"
	"lectern/internal/sanitize"
	"lectern/internal/store"
	"lectern/internal/view"
)

var (
	configPath string
	dbPath     string
	userID     string
	verbose    bool

	cfg          *config.Config
	st           *store.Store
	log          *logrus.Logger
	parser       *parse.Parser
	client       *fetch.Client
	resolver     *resolve.Chain
	orchestrator *feed.Orchestrator
	assembler    *view.Assembler
)

var rootCmd = &cobra.Command{
	Use:   "lectern",
	Short: "Self-hosted RSS/Atom feed reader",
	Long: `lectern tracks RSS and Atom feeds per user.

Subscribe with any URL (feed, site, subreddit, YouTube channel); lectern
resolves it to a concrete feed, ingests items on refresh, and keeps
per-user read, seen, and bookmark state.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath == "" {
			configPath = config.GetConfigPath()
		}

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if dbPath != "" {
			cfg.DBPath = dbPath
		}
		if userID == "" {
			userID = cfg.DefaultUser
		}

		log = logrus.New()
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}

		st, err = store.Open(cfg.DBPath, cfg.FreshnessWindow())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}

		parser = parse.New(sanitize.New())
		client = fetch.New(cfg)
		resolver = resolve.NewChain(client, parser)
		orchestrator = feed.New(client, parser, st, cfg.MaxConcurrentFetches, log)
		assembler = view.New(st)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if st != nil {
			if err := st.Close(); err != nil {
				return fmt.Errorf("failed to close database: %w", err)
			}
		}
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: ~/.config/lectern/config.toml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file path (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&userID, "user", "u", "", "user to act as (default: config default_user)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
