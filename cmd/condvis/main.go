// Command condvis evaluates visibility rules and resolves deferred markers
// from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/haukened/condvis/internal/visibility/common/log"
)

const version = "0.1.0-dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "condvis",
		Short: "Conditional visibility tools",
		Long: `condvis evaluates domain and field visibility rules and resolves the
deferred markers left in rendered pages.

Examples:
  # Would a block for "nl" show on a "be" page?
  condvis eval domain --expected nl --current be

  # Compare a request variable
  condvis eval field --var lang --expected en --comparator equals --set lang=en

  # Hide marked containers in a saved page
  condvis resolve page.html > resolved.html`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !verbose {
				return nil
			}
			return log.Configure("dev", "debug")
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")

	cmd.AddCommand(newEvalCmd())
	cmd.AddCommand(newResolveCmd())
	cmd.AddCommand(newTermsCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "condvis %s\n", version)
		},
	}
}
