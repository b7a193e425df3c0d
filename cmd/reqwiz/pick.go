package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amishk599/reqwiz/internal/model"
	"github.com/amishk599/reqwiz/internal/picker"
	"github.com/amishk599/reqwiz/internal/session"
	"github.com/amishk599/reqwiz/internal/store"
)

var (
	pickCategory string
	pickSession  string
	pickCount    int
	pickCorpus   []string
	pickDryRun   bool
)

// recorder is a selection store the command owns and must close.
type recorder interface {
	session.Recorder
	Close() error
}

var pickCmd = &cobra.Command{
	Use:   "pick <job title>",
	Short: "Interactively accept suggestions into a saved selection",
	Long:  "Opens a picker over generated suggestions. Accepted items are saved under the session id, so a later run with --session resumes the selection.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPick,
}

func init() {
	pickCmd.Flags().StringVar(&pickCategory, "category", string(model.CategoryTasks), "category to start with")
	pickCmd.Flags().StringVar(&pickSession, "session", "", "session id to resume (default: new session)")
	pickCmd.Flags().IntVarP(&pickCount, "count", "n", 0, "number of suggestions (default: generation.count)")
	pickCmd.Flags().StringSliceVar(&pickCorpus, "corpus", nil, "extra reference files or globs")
	pickCmd.Flags().BoolVar(&pickDryRun, "dry-run", false, "keep selections in memory only")
	rootCmd.AddCommand(pickCmd)
}

func runPick(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	category, err := model.ParseCategory(pickCategory)
	if err != nil {
		return err
	}
	count := cfg.Generation.Count
	if cmd.Flags().Changed("count") {
		count = pickCount
	}

	ctx, stop := signalContext()
	defer stop()

	var st recorder = store.NewNopStore()
	if pickDryRun {
		logger.Info("dry-run mode enabled, selections will not be saved")
	} else {
		sqlStore, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DSN)
		if err != nil {
			return err
		}
		st = sqlStore
	}
	defer st.Close()

	ix, err := buildIndex(ctx, cfg, pickCorpus, logger)
	if err != nil {
		return err
	}

	sess, err := newSession(ctx, cfg, ix, session.Options{
		ID:          pickSession,
		JobTitle:    strings.Join(args, " "),
		Temperature: cfg.Generation.Temperature,
		Recorder:    st,
	}, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := sess.Close(); err != nil {
			logger.Warn("closing backend", "error", err)
		}
	}()

	if err := sess.Restore(ctx); err != nil {
		return err
	}
	if err := picker.Run(ctx, sess, category, count); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s\n", headingStyle.Render("session"), sess.ID())
	for _, c := range model.Categories {
		fmt.Fprintf(out, "  %-9s %d selected\n", c, len(sess.Selection(c)))
	}
	return nil
}
