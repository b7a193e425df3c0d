package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amishk599/reqwiz/internal/model"
)

var (
	searchK      int
	searchCorpus []string
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find the reference documents most similar to a query",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchK, "k", "k", 3, "number of documents to return")
	searchCmd.Flags().StringSliceVar(&searchCorpus, "corpus", nil, "extra reference files or globs")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signalContext()
	defer stop()

	ix, err := buildIndex(ctx, cfg, searchCorpus, logger)
	if err != nil {
		return err
	}
	if !ix.Built() {
		return fmt.Errorf("%w: configure corpus sources or pass --corpus", model.ErrIndexNotBuilt)
	}

	results, err := ix.Query(ctx, strings.Join(args, " "), searchK)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i, r := range results {
		fmt.Fprintf(out, "%s %s\n", headingStyle.Render(fmt.Sprintf("%d.", i+1)), r.Document.Origin)
		fmt.Fprintf(out, "   %s\n", dimStyle.Render(fmt.Sprintf("score %.3f", r.Score)))
		fmt.Fprintf(out, "   %s\n\n", preview(r.Document.Text, 160))
	}
	return nil
}

// preview returns the first n runes of text on one line.
func preview(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	if r := []rune(text); len(r) > n {
		return string(r[:n]) + "..."
	}
	return text
}
