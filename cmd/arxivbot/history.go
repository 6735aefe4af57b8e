package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"arxivbot/internal/storage"
)

var (
	flagHistorySource string
	flagHistoryLimit  int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent post attempts (sqlite state only)",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&flagHistorySource, "source", "", "only list posts of this source id")
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 20, "maximum number of posts to list")
}

func runHistory(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := storage.Open(cfg.State)
	if err != nil {
		return fmt.Errorf("open state: %w", err)
	}
	defer func() { _ = store.Close() }()

	db, ok := store.(*storage.SQLite)
	if !ok {
		return errors.New("history requires state.driver: sqlite")
	}

	posts, err := db.ListPosts(cmd.Context(), flagHistorySource, flagHistoryLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(posts) == 0 {
		_, _ = fmt.Fprintln(out, "No posts recorded.")
		return nil
	}
	for _, p := range posts {
		line := fmt.Sprintf("%-6s %-8s %-14s %s", p.Status, p.SourceID, humanize.Time(p.CreatedAt), p.Link)
		if p.Error != "" {
			line += "  (" + p.Error + ")"
		}
		_, _ = fmt.Fprintln(out, line)
		_, _ = fmt.Fprintln(out, "       "+strings.ReplaceAll(p.Text, "\n", " | "))
	}
	return nil
}
