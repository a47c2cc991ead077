package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rgehrsitz/pvgo/internal/catalog"
	"github.com/rgehrsitz/pvgo/internal/compare"
	"github.com/rgehrsitz/pvgo/internal/domain"
	"github.com/rgehrsitz/pvgo/internal/output"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// queryFlags registers the kit search constraints shared by kits and compare
func queryFlags(cmd *cobra.Command) {
	cmd.Flags().String("roof", "", "Roof type (e.g. ceramic, metal)")
	cmd.Flags().String("phase", "", "Grid connection phase (mono, bi, three)")
	cmd.Flags().Int("voltage", 0, "Grid voltage")
	cmd.Flags().String("region", "", "Delivery region")
}

func readQuery(cmd *cobra.Command) catalog.Query {
	q := catalog.Query{}
	q.RoofType, _ = cmd.Flags().GetString("roof")
	q.Phase, _ = cmd.Flags().GetString("phase")
	q.Voltage, _ = cmd.Flags().GetInt("voltage")
	q.Region, _ = cmd.Flags().GetString("region")
	return q
}

func parseDecimalFlag(cmd *cobra.Command, name string) (decimal.Decimal, bool, error) {
	s, _ := cmd.Flags().GetString(name)
	if s == "" {
		return decimal.Zero, false, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false, domain.NewInvalidInput(name, "expected a number, got %q", s)
	}
	return d, true, nil
}

func kitsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kits",
		Short: "Search the equipment kit catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			cat, err := loadCatalog(cmd, settings)
			if err != nil {
				return err
			}

			q := readQuery(cmd)
			if q.MinKwp, _, err = parseDecimalFlag(cmd, "min-kwp"); err != nil {
				return err
			}
			if q.MaxKwp, _, err = parseDecimalFlag(cmd, "max-kwp"); err != nil {
				return err
			}
			q.Limit, _ = cmd.Flags().GetInt("limit")

			kits, err := cat.Search(cmd.Context(), q)
			if err != nil {
				return err
			}

			outputFormat, _ := cmd.Flags().GetString("format")
			switch strings.ToLower(outputFormat) {
			case "json":
				if kits == nil {
					kits = []catalog.Kit{}
				}
				return writeJSON(cmd.OutOrStdout(), kits)
			case "table", "console", "":
				writeKits(cmd.OutOrStdout(), cat.Version(), kits)
				return nil
			default:
				return fmt.Errorf("unknown output format: %s (valid: table, json)", outputFormat)
			}
		},
	}
	cmd.Flags().String("min-kwp", "", "Minimum kit power in kWp")
	cmd.Flags().String("max-kwp", "", "Maximum kit power in kWp")
	cmd.Flags().Int("limit", 0, "Maximum number of kits, 0 for all")
	cmd.Flags().StringP("format", "f", "table", "Output format (table, json)")
	queryFlags(cmd)
	return cmd
}

func writeKits(w io.Writer, version string, kits []catalog.Kit) {
	fmt.Fprintf(w, "KIT CATALOG %s\n", version)
	fmt.Fprintln(w, strings.Repeat("=", 78))
	fmt.Fprintf(w, "%-14s %-30s %8s %7s %8s %16s\n", "ID", "Name", "kWp", "Panels", "Area m²", "Price")
	fmt.Fprintln(w, strings.Repeat("-", 78))
	for _, k := range kits {
		fmt.Fprintf(w, "%-14s %-30s %8s %7d %8s %16s\n",
			k.ID, k.Name, k.TotalPowerKwp.StringFixed(2), k.PanelCount, k.AreaM2.StringFixed(2), output.FormatCurrency(k.TotalPrice))
	}
	fmt.Fprintf(w, "%d kit(s)\n", len(kits))
}

func compareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [input-file]",
		Short: "Compare the candidate kits of the catalog for a proposal",
		Long: `Size the proposal, search the catalog for kits around the required power
and price a proposal for each. The input's equipment cost is replaced by each
kit's price.

Examples:
  pvgo compare proposal.yaml
  pvgo compare proposal.yaml --base gt-3.30-m --max 3 --format csv
  pvgo compare proposal.yaml --roof metal --format json
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputFile := args[0]
			in, err := loadInput(inputFile)
			if err != nil {
				return err
			}
			settings, engine, err := setup(cmd)
			if err != nil {
				return err
			}
			cat, err := loadCatalog(cmd, settings)
			if err != nil {
				return err
			}

			baseKitID, _ := cmd.Flags().GetString("base")
			maxKits, _ := cmd.Flags().GetInt("max")
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			compareEngine := compare.NewCompareEngine(engine, cat)
			comparisonSet, err := compareEngine.Compare(ctx, *in, compare.CompareOptions{
				Query:     readQuery(cmd),
				BaseKitID: baseKitID,
				MaxKits:   maxKits,
			})
			if err != nil {
				return fmt.Errorf("comparison failed: %w", err)
			}
			comparisonSet.InputPath = inputFile

			outputFormat, _ := cmd.Flags().GetString("format")
			formatter := &compare.TableFormatter{}
			switch strings.ToLower(outputFormat) {
			case "csv":
				out, err := (&compare.CSVFormatter{}).Format(comparisonSet)
				if err != nil {
					return fmt.Errorf("failed to format CSV: %w", err)
				}
				fmt.Fprint(cmd.OutOrStdout(), out)
			case "json":
				out, err := (&compare.JSONFormatter{Pretty: true}).Format(comparisonSet)
				if err != nil {
					return fmt.Errorf("failed to format JSON: %w", err)
				}
				fmt.Fprint(cmd.OutOrStdout(), out)
			case "compact":
				fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCompact(comparisonSet))
			case "table", "console", "":
				fmt.Fprint(cmd.OutOrStdout(), formatter.Format(comparisonSet))
			default:
				return fmt.Errorf("unknown output format: %s (valid: table, compact, csv, json)", outputFormat)
			}
			return nil
		},
	}
	cmd.Flags().String("base", "", "Base kit ID (default: smallest kit covering the required power)")
	cmd.Flags().Int("max", 0, "Maximum number of alternative kits, 0 for all")
	cmd.Flags().StringP("format", "f", "table", "Output format (table, compact, csv, json)")
	queryFlags(cmd)
	return cmd
}
