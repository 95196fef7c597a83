package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/haukened/condvis/internal/visibility/repos/terms"
)

func newTermsCmd() *cobra.Command {
	var contentID string

	cmd := &cobra.Command{
		Use:   "terms <file>",
		Short: "List the domain terms of a term file",
		Long: `List the domain select options defined in a YAML, JSON or TOML term file.

With --content, print the domain term assigned to that content item instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := terms.LoadFile(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if contentID != "" {
				slug, ok, err := repo.DomainTerm(contentID)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("content %q has no domain term", contentID)
				}
				_, err = fmt.Fprintln(out, slug)
				return err
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SLUG\tNAME")
			for _, t := range repo.Terms() {
				fmt.Fprintf(w, "%s\t%s\n", t.Slug, t.Name)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&contentID, "content", "", "Show the term assigned to this content id")
	return cmd
}
