package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sliderx/slidepdf/slides"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type renderOptions struct {
	in     string
	out    string
	format string
	title  string
}

func newRenderCmd() *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a deck file to PDF",
		Long: `Render a request file (the body accepted by POST /generate-pdf) to a PDF.

The input format follows the file extension (.yaml and .yml are YAML,
anything else JSON) unless --format is given. Use --in - to read stdin.
Without --out the file is named after the project id.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.InOrStdin(), cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.in, "in", "", "Request file, or - for stdin (required)")
	cmd.Flags().StringVar(&opts.out, "out", "", "Output PDF path")
	cmd.Flags().StringVar(&opts.format, "format", "", "Input format: json or yaml")
	cmd.Flags().StringVar(&opts.title, "title", "", "Document title recorded in the PDF")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

func runRender(stdin io.Reader, stdout io.Writer, opts renderOptions) error {
	format := strings.ToLower(opts.format)
	if format == "" {
		switch strings.ToLower(filepath.Ext(opts.in)) {
		case ".yaml", ".yml":
			format = "yaml"
		default:
			format = "json"
		}
	}

	var decode func(io.Reader) (slides.Request, error)
	switch format {
	case "json":
		decode = slides.DecodeJSON
	case "yaml":
		decode = slides.DecodeYAML
	default:
		return fmt.Errorf("unknown format %q", opts.format)
	}

	in := stdin
	if opts.in != "-" {
		f, err := os.Open(opts.in)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	req, err := decode(in)
	if err != nil {
		return fmt.Errorf("read %s: %w", opts.in, err)
	}

	style := slides.DefaultStyle()
	style.DocumentTitle = opts.title
	doc, err := slides.RenderWithStyle(req.Deck, style)
	if err != nil {
		return err
	}
	for _, w := range doc.Warnings() {
		logger.Warn("layout overflow",
			zap.Int("slide", w.Slide),
			zap.Stringer("kind", w.Kind),
			zap.String("detail", w.Message))
	}

	out := opts.out
	if out == "" {
		out = slides.Filename(req.ProjectID)
	}
	if err := os.WriteFile(out, doc.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	fmt.Fprintf(stdout, "wrote %s (%d pages, %d bytes)\n", out, doc.PageCount(), doc.Len())
	return nil
}
