package main

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/pvgo/internal/breakeven"
	"github.com/rgehrsitz/pvgo/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func breakEvenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "break-even [input-file]",
		Short: "Find the highest margin that still meets a payback or NPV goal",
		Long: `Binary-search the base margin of a proposal.

Without --target-years or --min-npv the command prints a margin ladder: the
highest margin for each payback horizon in --horizons.

Examples:
  pvgo break-even proposal.yaml --target-years 4
  pvgo break-even proposal.yaml --goal minimum_npv --min-npv 20000
  pvgo break-even proposal.yaml --horizons 3,4,5,6,8
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := loadInput(args[0])
			if err != nil {
				return err
			}
			_, engine, err := setup(cmd)
			if err != nil {
				return err
			}

			constraints := breakeven.DefaultConstraints()
			if v, ok, err := parseDecimalFlag(cmd, "min-margin"); err != nil {
				return err
			} else if ok {
				constraints.MinMargin = &v
			}
			if v, ok, err := parseDecimalFlag(cmd, "max-margin"); err != nil {
				return err
			} else if ok {
				constraints.MaxMargin = &v
			}
			if v, ok, err := parseDecimalFlag(cmd, "target-years"); err != nil {
				return err
			} else if ok {
				constraints.TargetPaybackYears = &v
			}
			if v, ok, err := parseDecimalFlag(cmd, "min-npv"); err != nil {
				return err
			} else if ok {
				constraints.MinimumNPV = &v
			}

			goalStr, _ := cmd.Flags().GetString("goal")
			goal := breakeven.OptimizationGoal(strings.ToLower(goalStr))
			maxIterations, _ := cmd.Flags().GetInt("max-iterations")
			outputFormat, _ := cmd.Flags().GetString("format")
			outputFormat = strings.ToLower(outputFormat)
			if outputFormat != "table" && outputFormat != "json" {
				return fmt.Errorf("unknown output format: %s (valid: table, json)", outputFormat)
			}

			solver := breakeven.NewDefaultSolver(engine)
			if maxIterations > 0 {
				solver.Options.MaxIterations = maxIterations
			}

			if goal == breakeven.GoalPayback && constraints.TargetPaybackYears == nil {
				horizonsStr, _ := cmd.Flags().GetString("horizons")
				horizons, err := parseHorizons(horizonsStr)
				if err != nil {
					return err
				}
				ladder, err := solver.SolveLadder(cmd.Context(), *in, horizons)
				if err != nil {
					return err
				}
				if outputFormat == "json" {
					out, err := (&breakeven.JSONFormatter{Pretty: true}).FormatLadder(ladder)
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), out)
					return nil
				}
				fmt.Fprint(cmd.OutOrStdout(), (&breakeven.TableFormatter{}).FormatLadder(ladder))
				return nil
			}

			result, err := solver.Optimize(cmd.Context(), breakeven.OptimizationRequest{
				Input:         *in,
				Goal:          goal,
				Constraints:   constraints,
				MaxIterations: solver.Options.MaxIterations,
				Tolerance:     solver.Options.Tolerance,
			})
			if err != nil {
				return err
			}
			if outputFormat == "json" {
				out, err := (&breakeven.JSONFormatter{Pretty: true}).Format(result)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), out)
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), (&breakeven.TableFormatter{}).Format(result))
			return nil
		},
	}
	cmd.Flags().String("goal", string(breakeven.GoalPayback), "Goal to keep (payback, minimum_npv)")
	cmd.Flags().String("target-years", "", "Payback horizon in years for the payback goal")
	cmd.Flags().String("min-npv", "", "NPV floor for the minimum_npv goal")
	cmd.Flags().String("min-margin", "", "Lowest base margin to consider, in percent (default 0)")
	cmd.Flags().String("max-margin", "", "Highest base margin to consider, in percent (default 60)")
	cmd.Flags().String("horizons", "3,4,5,6", "Comma-separated payback horizons for the margin ladder")
	cmd.Flags().Int("max-iterations", 0, "Maximum proposal evaluations per search (default 50)")
	cmd.Flags().StringP("format", "f", "table", "Output format (table, json)")
	return cmd
}

func parseHorizons(s string) ([]decimal.Decimal, error) {
	var horizons []decimal.Decimal
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := decimal.NewFromString(part)
		if err != nil || !d.IsPositive() {
			return nil, domain.NewInvalidInput("horizons", "expected positive years, got %q", part)
		}
		horizons = append(horizons, d)
	}
	return horizons, nil
}
