package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func aiCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ai",
		Short: "Generate product copy and sales commentary with Gemini",
	}

	describe := &cobra.Command{
		Use:   "describe <product name> [keywords...]",
		Short: "Draft an HTML product description",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.load(cmd.Context())
			if err != nil {
				return err
			}
			text := a.Controller.DescribeProduct(cmd.Context(), args[0], strings.Join(args[1:], ", "))
			fmt.Fprintln(e.opts.Out, text)
			return nil
		},
	}

	insight := &cobra.Command{
		Use:   "insight",
		Short: "Summarize the last week of sales",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := e.controller(cmd.Context())
			if err != nil {
				return err
			}
			sum := ctrl.Summary(cmd.Context())
			if e.asJSON {
				return e.printJSON(sum)
			}
			fmt.Fprintf(e.opts.Out, "Total sales: %s %s across %d orders\n", sum.TotalSales, sum.Currency, sum.OrderCount)
			for _, p := range sum.Series {
				fmt.Fprintf(e.opts.Out, "  %s  %8.2f  (%d)\n", p.Name, p.Sales, p.Orders)
			}
			fmt.Fprintln(e.opts.Out, sum.Insight)
			return nil
		},
	}

	cmd.AddCommand(describe, insight)
	return cmd
}
