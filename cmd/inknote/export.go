package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"inknote/internal/export"
)

func newExportCmd(e *env) *cobra.Command {
	var (
		format string
		page   int
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the saved note as PNG, JPG or PDF",
		Long: `Export the saved note through headless Chrome.

Examples:
  inknote export --format pdf            # every page, one per sheet
  inknote export --format png --page 2   # a single page
  inknote export --format jpg --out note.jpg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}

			store, err := openStore(ctx, e.cfg)
			if err != nil {
				return err
			}
			defer store.Close()
			doc := newPersister(store, e.cfg, e.log).Load(ctx)

			if page < 1 || page > doc.Len() {
				return fmt.Errorf("page %d out of range (document has %d)", page, doc.Len())
			}
			req := export.Request{Format: f, Index: page - 1}
			for _, p := range doc.Pages {
				req.Pages = append(req.Pages, p.Settings)
			}

			exporter, err := newExporter(ctx, e.cfg, e.log)
			if err != nil {
				return err
			}
			result, err := exporter.Export(ctx, req)
			if err != nil {
				return err
			}

			if result.URL != "" && out == "" {
				fmt.Fprintln(cmd.OutOrStdout(), result.URL)
				return nil
			}
			if out == "" {
				out = result.Filename
			}
			if err := os.WriteFile(out, result.Data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "pdf", "png, jpg or pdf")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page to capture for image formats (1-based)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default inknote-p{page}-{millis}.{ext})")
	return cmd
}
