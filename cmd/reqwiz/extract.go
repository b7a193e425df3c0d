package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/reqwiz/internal/extract"
	"github.com/amishk599/reqwiz/internal/suggest"
)

var extractBullets bool

var extractCmd = &cobra.Command{
	Use:   "extract <file|url>",
	Short: "Extract plain text from a PDF, DOCX, HTML or text document",
	Long:  "Extracts the text of a document. With --bullets only its list items are printed, each tagged with its inferred category.",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

func init() {
	extractCmd.Flags().BoolVar(&extractBullets, "bullets", false, "print only list items with their inferred category")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	var (
		text string
		err  error
	)
	src := args[0]
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		text, err = extract.FromURL(ctx, &http.Client{Timeout: 30 * time.Second}, src)
	} else {
		text, err = extract.FromFile(src)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !extractBullets {
		fmt.Fprintln(out, text)
		return nil
	}
	for _, item := range suggest.ExtractBullets(text) {
		fmt.Fprintf(out, "%s %s\n", dimStyle.Render("["+string(suggest.InferCategory(item))+"]"), item)
	}
	return nil
}
