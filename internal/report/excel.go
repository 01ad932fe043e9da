package report

import (
	"github.com/pratapwarrohit13/OCPM-ENTITY-RELATIONSHIP/pkg/models"
	"github.com/xuri/excelize/v2"
)

// WorkbookName is the default file name of the spreadsheet report.
const WorkbookName = "relationship_report.xlsx"

// WriteWorkbook writes the three-sheet spreadsheet report: Relationships,
// Primary Keys, and Date Columns.
func WriteWorkbook(path string, model *models.SchemaModel) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "Relationships"); err != nil {
		return err
	}
	if err := setRow(f, "Relationships", 1, relationshipHeader); err != nil {
		return err
	}
	for i, row := range RelationshipRows(model) {
		cells := []string{row.ChildTable, row.ChildColumn, row.ParentTable, row.ParentColumn, row.Cardinality}
		if err := setRow(f, "Relationships", i+2, cells); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet("Primary Keys"); err != nil {
		return err
	}
	if err := setRow(f, "Primary Keys", 1, primaryKeyHeader); err != nil {
		return err
	}
	for i, row := range PrimaryKeyRows(model) {
		if err := setRow(f, "Primary Keys", i+2, []string{row.Table, row.Candidates}); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet("Date Columns"); err != nil {
		return err
	}
	if err := setRow(f, "Date Columns", 1, dateColumnsHeader); err != nil {
		return err
	}
	for i, row := range DateColumnsRows(model) {
		if err := setRow(f, "Date Columns", i+2, []string{row.FileName, row.DateColumns}); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}

func setRow(f *excelize.File, sheet string, row int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	return f.SetSheetRow(sheet, cell, &values)
}
