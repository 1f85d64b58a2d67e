// =============================================================================
// XML to EDIFACT Converter - Encode Command
// =============================================================================
//
// This file defines the 'encode' command, which prints the EDIFACT text of a
// single XML order without touching the inbox, outbox or archive.
//
// COMMAND USAGE:
//   edifact-converter encode <file> [--compact] [--strict]
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/XML-to-EDIFACT-conversion/internal/converter"
	"github.com/ginjaninja78/XML-to-EDIFACT-conversion/internal/edifact"
)

var (
	encodeCompact bool
	encodeStrict  bool
)

// encodeCmd represents the 'encode' command.
var encodeCmd = &cobra.Command{
	Use:   "encode <file>",
	Short: "Print the EDIFACT interchange for one XML order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("compact") {
			cfg.Edifact.Compact = encodeCompact
		}
		if cmd.Flags().Changed("strict") {
			cfg.Edifact.Strict = encodeStrict
		}

		opts, err := cfg.EncoderOptions()
		if err != nil {
			return fmt.Errorf("failed to build encoder options: %w", err)
		}

		conv := converter.New(edifact.New(opts), nil, converter.Options{Strict: cfg.Edifact.Strict}, nil)
		_, msg, err := conv.Encode(args[0])
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), conv.Text(msg))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(encodeCmd)

	encodeCmd.Flags().BoolVar(&encodeCompact, "compact", false, "Write the interchange on a single line")
	encodeCmd.Flags().BoolVar(&encodeStrict, "strict", false, "Validate the order before encoding")
}
