package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/haukened/condvis/internal/visibility/domain"
	"github.com/haukened/condvis/internal/visibility/services/visibility"
)

// evalResult is the --json form of a decision.
type evalResult struct {
	Hidden bool   `json:"hidden"`
	Reason string `json:"reason"`
}

func newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate a single visibility rule",
	}
	cmd.AddCommand(newEvalDomainCmd())
	cmd.AddCommand(newEvalFieldCmd())
	return cmd
}

func newEvalDomainCmd() *cobra.Command {
	var (
		expected string
		current  string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "domain",
		Short: "Evaluate a domain match rule",
		Long: `Evaluate a domain match rule against the current domain slug.

An empty --expected leaves the rule disabled. An expected slug of "algemeen"
shows the block only when no domain is current.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rule := domain.NewDomainRule(expected)
			dec := visibility.Evaluate(rule, domain.Context{CurrentDomainSlug: current})
			return printDecision(cmd.OutOrStdout(), dec, asJSON)
		},
	}

	cmd.Flags().StringVar(&expected, "expected", "", "Expected domain slug")
	cmd.Flags().StringVar(&current, "current", "", "Current domain slug")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the decision as JSON")
	return cmd
}

func newEvalFieldCmd() *cobra.Command {
	var (
		variable   string
		expected   string
		comparator string
		set        []string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "field",
		Short: "Evaluate a request variable rule",
		Long: `Evaluate a field match rule against request variables given with --set.

Comparators: equals, not_equals, contains, not_contains. An unrecognised
comparator is evaluated as is, which shows the block.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if variable == "" {
				return fmt.Errorf("--var is required")
			}
			vars, err := parseAssignments(set)
			if err != nil {
				return err
			}

			c, err := domain.ParseComparator(comparator)
			if err != nil {
				c = domain.Comparator(comparator)
			}

			rule := domain.NewFieldRule(variable, expected, c)
			dec := visibility.Evaluate(rule, domain.Context{RequestVariables: vars})
			return printDecision(cmd.OutOrStdout(), dec, asJSON)
		},
	}

	cmd.Flags().StringVar(&variable, "var", "", "Request variable name")
	cmd.Flags().StringVar(&expected, "expected", "", "Value to compare against")
	cmd.Flags().StringVar(&comparator, "comparator", string(domain.Equals), "Comparison operator")
	cmd.Flags().StringArrayVar(&set, "set", nil, "Request variable as name=value (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the decision as JSON")
	return cmd
}

// parseAssignments turns name=value pairs into request variables. Later pairs win.
func parseAssignments(pairs []string) (domain.Variables, error) {
	vars := make(domain.Variables, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --set %q, expected name=value", p)
		}
		vars[name] = value
	}
	return vars, nil
}

func printDecision(w io.Writer, dec domain.Decision, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		return enc.Encode(evalResult{Hidden: dec.Hidden, Reason: string(dec.Reason)})
	}
	state := "visible"
	if dec.Hidden {
		state = "hidden"
	}
	_, err := fmt.Fprintf(w, "%s (%s)\n", state, dec.Reason)
	return err
}
