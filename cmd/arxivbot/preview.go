package main

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"arxivbot/internal/fetcher"
	"arxivbot/internal/filter"
)

var flagPreviewSource string

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Fetch the feeds and print the announcements without posting",
	RunE:  runPreview,
}

func init() {
	previewCmd.Flags().StringVar(&flagPreviewSource, "source", "", "only preview the source with this id")
}

func runPreview(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	f := fetcher.New(newHTTPClient(cfg))
	synth := newSynthesizer()
	out := cmd.OutOrStdout()

	matched := false
	for _, src := range cfg.Sources {
		if flagPreviewSource != "" && src.ID != flagPreviewSource {
			continue
		}
		matched = true

		snap, err := f.Fetch(cmd.Context(), src.URL)
		if err != nil {
			_, _ = fmt.Fprintf(out, "# %s: %v\n\n", src.ID, err)
			continue
		}

		articles, err := filter.Articles(snap.Articles, src.Filters)
		if err != nil {
			return fmt.Errorf("source %s: %w", src.ID, err)
		}
		_, _ = fmt.Fprintf(out, "# %s (%s) %s: %d articles\n\n", src.ID, src.Name, snap.PublicationDate, len(articles))
		for _, a := range articles {
			text := synth.Synthesize(a)
			_, _ = fmt.Fprintf(out, "%s\n[%d chars]\n\n", text, utf8.RuneCountInString(text))
		}
	}

	if !matched {
		return errors.New("no source with id " + flagPreviewSource)
	}
	return nil
}
