package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/sliderx/slidepdf/reader"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newExtractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract FILE",
		Short: "Print the text of each page of a PDF",
		Long: `Print the text of each page of a PDF, the same text POST /extract-text
returns. Pages are separated by a "--- Slide N ---" header.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd.OutOrStdout(), args[0])
		},
	}
}

func runExtract(stdout io.Writer, path string) error {
	r, err := reader.Open(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	texts, err := r.PageTexts()
	if err != nil {
		return fmt.Errorf("extract %s: %w", path, err)
	}
	logger.Debug("extracted text", zap.String("file", path), zap.Int("pages", len(texts)))

	for i, text := range texts {
		if i > 0 {
			fmt.Fprintln(stdout)
		}
		fmt.Fprintf(stdout, "--- Slide %d ---\n%s\n", i+1, strings.TrimSpace(text))
	}
	return nil
}
