// =============================================================================
// XML to EDIFACT Converter - Validate Command
// =============================================================================
//
// This file defines the 'validate' command. It loads the configuration and
// the party table and reports any problem. Files given as arguments are
// checked against the strict order rules without being converted.
//
// COMMAND USAGE:
//   edifact-converter validate [files...]
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/XML-to-EDIFACT-conversion/internal/edifact"
	"github.com/ginjaninja78/XML-to-EDIFACT-conversion/internal/orderxml"
	"github.com/ginjaninja78/XML-to-EDIFACT-conversion/internal/validation"
)

// validateCmd represents the 'validate' command.
var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Validate configuration, party table and optionally XML orders",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Configuration OK (%s)\n", cfgFile)

		opts, err := cfg.EncoderOptions()
		if err != nil {
			return fmt.Errorf("invalid party table: %w", err)
		}
		fmt.Fprintf(out, "Count rule:      %s\n", opts.CountRule.Name())
		fmt.Fprintf(out, "Order reference: %s\n", opts.OrderReference)
		for _, role := range edifact.PartyRoles {
			p := opts.Parties[role]
			fmt.Fprintf(out, "NAD %s:          %s, %s, %s %s %s\n", role, p.Name, p.Street, p.PostalCode, p.City, p.Country)
		}

		validator := validation.NewValidator()
		failed := 0
		for _, path := range args {
			doc, err := orderxml.ReadFile(path)
			if err == nil {
				err = validator.Validate(doc)
			}
			if err != nil {
				failed++
				fmt.Fprintf(out, "  ✗ %s: %v\n", filepath.Base(path), err)
				continue
			}
			fmt.Fprintf(out, "  ✓ %s (%d lines)\n", filepath.Base(path), doc.LineCount())
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d file(s) failed validation", failed, len(args))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
