// =============================================================================
// XML to EDIFACT Converter - Main Entry Point
// =============================================================================
//
// This is the main entry point for the XML to EDIFACT Converter CLI
// application. It delegates command execution to the cmd package.
//
// USAGE:
//   edifact-converter process       - Convert all XML orders in the inbox
//   edifact-converter encode <file> - Print the EDIFACT text of one order
//   edifact-converter validate      - Validate configuration and orders
//   edifact-converter version       - Display the application version
//
// ARCHITECTURE:
//   - cmd/                 : CLI command definitions (Cobra)
//   - internal/orderxml    : XML purchase order reader
//   - internal/edifact     : ORDERS message encoder
//   - internal/validation  : Strict order validation
//   - internal/converter   : Per-file pipeline
//   - internal/config      : YAML + environment configuration
//   - internal/xlsxparser  : Party table workbook reader/writer
//   - internal/logging     : Logger construction
//   - pkg/utils            : Inbox/outbox/archive/error file handling
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/XML-to-EDIFACT-conversion/cmd"
)

func main() {
	cmd.Execute()
}
