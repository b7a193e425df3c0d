package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amishk599/reqwiz/internal/model"
	"github.com/amishk599/reqwiz/internal/store"
)

var (
	selectionSession  string
	selectionCategory string
)

var selectionCmd = &cobra.Command{
	Use:   "selection",
	Short: "Inspect saved selections",
}

var selectionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the items accepted in a session",
	Args:  cobra.NoArgs,
	RunE:  runSelectionList,
}

func init() {
	selectionListCmd.Flags().StringVar(&selectionSession, "session", "", "session id")
	selectionListCmd.Flags().StringVar(&selectionCategory, "category", "", "tasks, skills or benefits (default: all)")
	_ = selectionListCmd.MarkFlagRequired("session")
	selectionCmd.AddCommand(selectionListCmd)
	rootCmd.AddCommand(selectionCmd)
}

func runSelectionList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	categories := model.Categories
	if selectionCategory != "" {
		c, err := model.ParseCategory(selectionCategory)
		if err != nil {
			return err
		}
		categories = []model.Category{c}
	}

	ctx, stop := signalContext()
	defer stop()

	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DSN)
	if err != nil {
		return err
	}
	defer st.Close()

	out := cmd.OutOrStdout()
	for _, c := range categories {
		items, err := st.List(ctx, selectionSession, c)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, headingStyle.Render(titleCase(string(c))))
		if len(items) == 0 {
			fmt.Fprintln(out, bulletStyle.Render(dimStyle.Render("(none)")))
		}
		for _, item := range items {
			fmt.Fprintln(out, bulletStyle.Render("• "+item))
		}
		fmt.Fprintln(out)
	}
	return nil
}
