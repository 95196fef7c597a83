package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/haukened/condvis/internal/visibility/common/log"
	"github.com/haukened/condvis/internal/visibility/gateways/markup"
)

func newResolveCmd() *cobra.Command {
	var stats bool

	cmd := &cobra.Command{
		Use:   "resolve [file]",
		Short: "Resolve deferred domain markers in an HTML document",
		Long: `Read an HTML document from file, or stdin when no file is given, hide
every marked tag whose domains do not match and write the result to stdout.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				src []byte
				err error
			)
			if len(args) == 1 {
				src, err = os.ReadFile(args[0])
			} else {
				src, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("failed to read document: %w", err)
			}

			out, st, err := markup.NewRewriter(log.GetLogger()).Rewrite(src)
			if err != nil {
				return fmt.Errorf("failed to resolve markers: %w", err)
			}
			if _, err := cmd.OutOrStdout().Write(out); err != nil {
				return err
			}
			if stats {
				fmt.Fprintf(cmd.ErrOrStderr(), "markers=%d hidden=%d changed=%d\n", st.Markers, st.Hidden, st.Changed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&stats, "stats", false, "Print marker counts to stderr")
	return cmd
}
