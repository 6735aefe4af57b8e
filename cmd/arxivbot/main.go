package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"arxivbot/internal/config"
	"arxivbot/internal/hashtag"
	"arxivbot/internal/tagger"
	"arxivbot/internal/tweet"
)

var version = "dev"

var flagConfig string

var rootCmd = &cobra.Command{
	Use:           "arxivbot",
	Short:         "Announce new arXiv papers on social media",
	Long:          "arxivbot polls arXiv RSS feeds and posts one short announcement per new paper.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runBot,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file (default $ARXIVBOT_CONFIG or "+config.DefaultPath()+")")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("arxivbot %s\n", version)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("arxivbot", "error", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func newHTTPClient(cfg *config.Config) *http.Client {
	return &http.Client{Timeout: cfg.HTTPTimeoutDuration()}
}

func newSynthesizer() *tweet.Synthesizer {
	return tweet.New(hashtag.New(tagger.NewProse(), tweet.Placeholder))
}
