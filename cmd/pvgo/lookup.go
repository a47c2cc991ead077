package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rgehrsitz/pvgo/internal/calculation"
	"github.com/rgehrsitz/pvgo/internal/domain"
	"github.com/rgehrsitz/pvgo/internal/output"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func decomposeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decompose",
		Short: "Split a monthly bill into compensable and non-compensable parts",
		Long: `Decompose one monthly electricity bill for a distributor and year.

Examples:
  pvgo decompose --consumption 300 --distributor CEMIG --year 2025
  pvgo decompose --consumption 450 --distributor ENEL-SP --class commercial --surcharge red1
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			consumptionStr, _ := cmd.Flags().GetString("consumption")
			consumption, err := decimal.NewFromString(consumptionStr)
			if err != nil || consumption.IsNegative() {
				return domain.NewInvalidInput("consumption", "expected a non-negative number of kWh, got %q", consumptionStr)
			}
			classStr, _ := cmd.Flags().GetString("class")
			class, err := domain.ParseConsumerClass(classStr)
			if err != nil {
				return err
			}
			distributor, _ := cmd.Flags().GetString("distributor")
			surcharge, _ := cmd.Flags().GetString("surcharge")
			year, _ := cmd.Flags().GetInt("year")
			strict, _ := cmd.Flags().GetBool("strict")

			_, engine, err := setup(cmd)
			if err != nil {
				return err
			}
			if year == 0 {
				year = engine.Now().Year()
			}

			d, sub, err := engine.Decomposer.Decompose(calculation.DecompositionRequest{
				ConsumptionKwh: consumption,
				Distributor:    distributor,
				ConsumerClass:  class,
				SurchargeLevel: domain.ParseSurchargeLevel(surcharge),
				Year:           year,
				Strict:         strict,
			})
			if err != nil {
				return err
			}
			if sub != nil {
				warnEstimated(cmd, []domain.Substitution{*sub})
			}

			outputFormat, _ := cmd.Flags().GetString("format")
			switch strings.ToLower(outputFormat) {
			case "json":
				return writeJSON(cmd.OutOrStdout(), d)
			case "table", "console", "":
				writeDecomposition(cmd.OutOrStdout(), d)
				return nil
			default:
				return fmt.Errorf("unknown output format: %s (valid: table, json)", outputFormat)
			}
		},
	}
	cmd.Flags().String("consumption", "", "Monthly consumption in kWh (required)")
	cmd.Flags().String("distributor", "", "Distributor name (empty uses the national average)")
	cmd.Flags().String("class", "", "Consumer class (residential, commercial, rural, industrial)")
	cmd.Flags().String("surcharge", "", "Seasonal surcharge level (none, yellow, red1, red2, scarcity)")
	cmd.Flags().Int("year", 0, "Billing year (default: current year)")
	cmd.Flags().Bool("strict", false, "Fail instead of using the national average for unknown distributors")
	cmd.Flags().StringP("format", "f", "table", "Output format (table, json)")
	_ = cmd.MarkFlagRequired("consumption")
	return cmd
}

func writeDecomposition(w io.Writer, d domain.TariffDecomposition) {
	fmt.Fprintln(w, "BILL DECOMPOSITION")
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "Distributor: %s (%s), year %d, surcharge %s\n", d.Distributor, d.ConsumerClass, d.Year, d.SurchargeLevel)
	fmt.Fprintf(w, "Consumption: %s\n", output.FormatKwh(d.ConsumptionKwh))
	if d.Estimated {
		fmt.Fprintln(w, "Tariff: national average (estimated)")
	}
	fmt.Fprintln(w, strings.Repeat("-", 60))

	rows := []struct {
		label string
		value decimal.Decimal
	}{
		{"Energy charge", d.EnergyCharge},
		{"Surcharge", d.SurchargeCharge},
		{"Distribution charge", d.DistributionCharge},
		{"  compensable", d.CompensableDistribution},
		{"  non-compensable", d.NonCompensableDistribution},
		{"Base total", d.BaseTotal},
		{"ICMS", d.ICMS},
		{"PIS", d.PIS},
		{"COFINS", d.COFINS},
		{"Grand total", d.GrandTotal},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%-22s %20s\n", r.label, output.FormatCurrency(r.value))
	}
	fmt.Fprintln(w, strings.Repeat("-", 60))
	fmt.Fprintf(w, "%-22s %20s\n", "Compensable", output.FormatPercentage(d.CompensableFraction.Mul(decimal.NewFromInt(100))))
	fmt.Fprintf(w, "%-22s %20s\n", "Percent economy", output.FormatPercentage(d.PercentEconomy))
}

func irradianceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "irradiance [location]",
		Short: "Show the solar irradiance used for a location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			strict, _ := cmd.Flags().GetBool("strict")
			_, engine, err := setup(cmd)
			if err != nil {
				return err
			}
			profile, sub, err := engine.ResolveIrradiance(args[0], strict)
			if err != nil {
				return err
			}
			if sub != nil {
				warnEstimated(cmd, []domain.Substitution{*sub})
			}

			w := cmd.OutOrStdout()
			name := profile.Location
			if profile.State != "" {
				name += " - " + profile.State
			}
			fmt.Fprintf(w, "Location: %s\n", name)
			fmt.Fprintf(w, "Daily average: %s kWh/m²/day\n", profile.DailyKwhPerM2().StringFixed(2))
			for i, v := range profile.MonthlyDailyKwhPerM2() {
				fmt.Fprintf(w, "  %2d: %s\n", i+1, v.StringFixed(2))
			}
			if profile.IsEstimated() {
				fmt.Fprintln(w, "Source: documented default (estimated)")
			} else {
				fmt.Fprintln(w, "Source: measured")
			}
			return nil
		},
	}
	cmd.Flags().Bool("strict", false, "Fail instead of using the default irradiance for unknown locations")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
