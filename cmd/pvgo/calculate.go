package main

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/pvgo/internal/output"
	"github.com/spf13/cobra"
)

var formatExtensions = map[string]string{
	"console":      "txt",
	"console-lite": "txt",
	"csv":          "csv",
	"json":         "json",
	"yaml":         "yaml",
	"html":         "html",
}

func calculateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calculate [input-file]",
		Short: "Size, price and project a proposal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := loadInput(args[0])
			if err != nil {
				return err
			}
			_, engine, err := setup(cmd)
			if err != nil {
				return err
			}

			outputFormat, _ := cmd.Flags().GetString("format")
			f := output.GetFormatterByName(outputFormat)
			if f == nil {
				return fmt.Errorf("unknown output format: %s (valid: %s)", outputFormat,
					strings.Join(append(output.AvailableFormatterNames(), output.AvailableFormatAliases()...), ", "))
			}

			proposal, err := engine.Calculate(*in)
			if err != nil {
				return err
			}
			warnEstimated(cmd, proposal.Substitutions)

			if save, _ := cmd.Flags().GetBool("save"); save {
				filename, err := output.WriteFormatted(f, proposal, formatExtensions[f.Name()])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Proposal written to %s\n", filename)
				return nil
			}

			data, err := f.Format(proposal)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	cmd.Flags().StringP("format", "f", "console", "Output format (console, console-lite, csv, json, yaml, html)")
	cmd.Flags().Bool("save", false, "Write the output to a timestamped file instead of stdout")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [input-file]",
		Short: "Validate a proposal input file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadInput(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Proposal input %s is valid\n", args[0])
			return nil
		},
	}
}
