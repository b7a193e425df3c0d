package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/amishk599/reqwiz/internal/model"
	"github.com/amishk599/reqwiz/internal/session"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	bulletStyle  = lipgloss.NewStyle().PaddingLeft(2)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

var (
	suggestCategory    string
	suggestCount       int
	suggestTemperature float64
	suggestCorpus      []string
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <job title>",
	Short: "Generate suggestions for a job title",
	Long:  "Generates tasks, skills and benefits for a job title. Without --category all three are generated.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSuggest,
}

func init() {
	suggestCmd.Flags().StringVar(&suggestCategory, "category", "", "tasks, skills or benefits (default: all)")
	suggestCmd.Flags().IntVarP(&suggestCount, "count", "n", 0, "number of suggestions (default: generation.count)")
	suggestCmd.Flags().Float64VarP(&suggestTemperature, "temperature", "t", 0, "sampling temperature 0-1 (default: generation.temperature)")
	suggestCmd.Flags().StringSliceVar(&suggestCorpus, "corpus", nil, "extra reference files or globs")
	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	categories := model.Categories
	if suggestCategory != "" {
		c, err := model.ParseCategory(suggestCategory)
		if err != nil {
			return err
		}
		categories = []model.Category{c}
	}
	count := cfg.Generation.Count
	if cmd.Flags().Changed("count") {
		count = suggestCount
	}
	temperature := cfg.Generation.Temperature
	if cmd.Flags().Changed("temperature") {
		temperature = suggestTemperature
	}

	ctx, stop := signalContext()
	defer stop()

	ix, err := buildIndex(ctx, cfg, suggestCorpus, logger)
	if err != nil {
		return err
	}

	title := strings.Join(args, " ")
	sess, err := newSession(ctx, cfg, ix, session.Options{JobTitle: title, Temperature: temperature}, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := sess.Close(); err != nil {
			logger.Warn("closing backend", "error", err)
		}
	}()

	out := cmd.OutOrStdout()
	for _, c := range categories {
		items, err := sess.Generate(ctx, c, count)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, headingStyle.Render(titleCase(string(c))))
		if len(items) == 0 {
			fmt.Fprintln(out, bulletStyle.Render(dimStyle.Render("(no suggestions)")))
		}
		for _, item := range items {
			fmt.Fprintln(out, bulletStyle.Render("• "+item))
		}
		fmt.Fprintln(out)
	}
	return nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

