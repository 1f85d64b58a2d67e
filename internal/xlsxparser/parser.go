// =============================================================================
// XML to EDIFACT Converter - XLSX Party Table Parser
// =============================================================================
//
// This module reads the trading-partner NAD address blocks from an XLSX
// workbook, so that account managers can maintain them without editing the
// YAML configuration.
//
// WORKBOOK LAYOUT (first sheet, row 1 is a header row):
//
//   | Role | Name                    | Street              | City      | Postal Code | Country |
//   |------|-------------------------|---------------------|-----------|-------------|---------|
//   | BY   | BRICOSTORE ROMANIA S.A. | Calea Giulesti, ... | BUCURESTI | 060251      | RO      |
//   | DP   | DEPOZIT BANEASA \ 1616  | Soseaua ...         | BUCURESTI | 013696      | RO      |
//   | SU   | STANLEY BLACK & DECKER  | TURTURELELOR, ...   | BUCURESTI | 30881       | RO      |
//
// Cell text is used verbatim (no trimming) so that blocks can be reproduced
// byte for byte. Roles not present in the workbook keep their defaults.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/XML-to-EDIFACT-conversion/internal/edifact"
)

// =============================================================================
// TEMPLATE COLUMN CONFIGURATION
// =============================================================================

// PartyColumns defines which columns of the workbook hold which value.
// Column indices are 0-based (A=0, B=1, C=2, etc.)
type PartyColumns struct {
	RoleColumn       int
	NameColumn       int
	StreetColumn     int
	CityColumn       int
	PostalCodeColumn int
	CountryColumn    int

	// DataStartRow is the row number where data begins (0-based).
	// Default: 1 (Row 2)
	DataStartRow int
}

// DefaultPartyColumns returns the default column configuration.
func DefaultPartyColumns() PartyColumns {
	return PartyColumns{
		RoleColumn:       0, // Column A
		NameColumn:       1, // Column B
		StreetColumn:     2, // Column C
		CityColumn:       3, // Column D
		PostalCodeColumn: 4, // Column E
		CountryColumn:    5, // Column F
		DataStartRow:     1, // Row 2
	}
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// ParseParties reads a party workbook using the default column layout.
//
// PARAMETERS:
//   - workbookPath: The path to the XLSX file.
//
// RETURNS:
//   - The parties found in the workbook, keyed by role.
//   - An error if the file cannot be read, a role is unknown or duplicated.
func ParseParties(workbookPath string) (edifact.Parties, error) {
	return ParsePartiesWithConfig(workbookPath, DefaultPartyColumns())
}

// ParsePartiesWithConfig reads a party workbook using a custom column layout.
func ParsePartiesWithConfig(workbookPath string, columns PartyColumns) (edifact.Parties, error) {
	f, err := excelize.OpenFile(workbookPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open party workbook: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("party workbook has no sheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	parties := make(edifact.Parties)
	for i := columns.DataStartRow; i < len(rows); i++ {
		row := rows[i]
		if isRowEmpty(row) {
			continue
		}

		role, party, err := parseRow(row, columns)
		if err != nil {
			return nil, fmt.Errorf("error parsing row %d: %w", i+1, err)
		}
		if _, dup := parties[role]; dup {
			return nil, fmt.Errorf("error parsing row %d: role %s listed twice", i+1, role)
		}
		parties[role] = party
	}

	return parties, nil
}

// parseRow extracts one party from a row.
func parseRow(row []string, columns PartyColumns) (edifact.PartyRole, edifact.Party, error) {
	getCell := func(index int) string {
		if index >= 0 && index < len(row) {
			return row[index]
		}
		return ""
	}

	role, err := edifact.ParseRole(getCell(columns.RoleColumn))
	if err != nil {
		return "", edifact.Party{}, err
	}

	return role, edifact.Party{
		Name:       getCell(columns.NameColumn),
		Street:     getCell(columns.StreetColumn),
		City:       getCell(columns.CityColumn),
		PostalCode: getCell(columns.PostalCodeColumn),
		Country:    getCell(columns.CountryColumn),
	}, nil
}

// isRowEmpty checks if all cells in a row are empty.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// =============================================================================
// WORKBOOK EXPORT
// =============================================================================

// WriteParties writes parties to a new workbook in the default layout. It is
// used to bootstrap a workbook from the built-in defaults.
func WriteParties(workbookPath string, parties edifact.Parties) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := []interface{}{"Role", "Name", "Street", "City", "Postal Code", "Country"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	row := 2
	for _, role := range edifact.PartyRoles {
		p, ok := parties[role]
		if !ok {
			continue
		}
		values := []interface{}{string(role), p.Name, p.Street, p.City, p.PostalCode, p.Country}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row, err)
		}
		row++
	}

	if err := f.SaveAs(workbookPath); err != nil {
		return fmt.Errorf("failed to save party workbook: %w", err)
	}
	return nil
}
