package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"inknote/internal/blobstore"
	"inknote/internal/note"
)

func newShowCmd(e *env) *cobra.Command {
	var (
		asJSON    bool
		revisions int
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print a summary of the saved note",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			store, err := openStore(ctx, e.cfg)
			if err != nil {
				return err
			}
			defer store.Close()
			doc := newPersister(store, e.cfg, e.log).Load(ctx)

			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(doc.Pages)
			}
			printSummary(w, doc)

			if revisions > 0 {
				repo, ok := store.(*blobstore.Git)
				if !ok {
					return fmt.Errorf("--revisions needs the git store driver, not %q", e.cfg.StoreDriver)
				}
				revs, err := repo.Revisions(e.cfg.DocumentKey, revisions)
				if err != nil {
					return err
				}
				fmt.Fprintln(w)
				for _, rev := range revs {
					fmt.Fprintf(w, "%s  %s  %s\n", rev.Hash, rev.CreatedAt.Format("2006-01-02 15:04"), rev.Message)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the stored pages as JSON")
	cmd.Flags().IntVar(&revisions, "revisions", 0, "list the last N saves (git store only)")
	return cmd
}

func printSummary(w io.Writer, doc note.Document) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PAGE\tWORDS\tCHARS\tFONT\tPAPER\tINK\tFIRST LINE")
	for i, p := range doc.Pages {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%s\t%s\t%s\t%s\n",
			i+1,
			note.WordCount(p.Text),
			note.CharCount(p.Text),
			p.Settings.FontID,
			p.Settings.PaperType,
			p.Settings.InkColor,
			firstLine(p.Text, 40),
		)
	}
	_ = tw.Flush()
}

func firstLine(text string, limit int) string {
	line, _, _ := strings.Cut(strings.TrimSpace(text), "\n")
	if r := []rune(line); len(r) > limit {
		return string(r[:limit-1]) + "…"
	}
	return line
}
