package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amishk599/reqwiz/internal/suggest"
)

var categorizeCmd = &cobra.Command{
	Use:   "categorize <text>",
	Short: "Guess whether a line describes a task, a skill or a benefit",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), suggest.InferCategory(strings.Join(args, " ")))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(categorizeCmd)
}
