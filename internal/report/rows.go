package report

import (
	"strings"

	"github.com/pratapwarrohit13/OCPM-ENTITY-RELATIONSHIP/pkg/models"
)

// Field names in the emitted tables are fixed for compatibility with
// downstream consumers of the report.

// RelationshipRow is one row of the relationships table.
type RelationshipRow struct {
	ChildTable   string `json:"Child Table"`
	ChildColumn  string `json:"Child Column (FK)"`
	ParentTable  string `json:"Parent Table"`
	ParentColumn string `json:"Parent Column (PK)"`
	Cardinality  string `json:"Cardinality"`
}

// PrimaryKeyRow is one row of the primary-keys table.
type PrimaryKeyRow struct {
	Table      string `json:"Table"`
	Candidates string `json:"Primary Key Candidates"`
}

// DateColumnsRow is one row of the date-columns table.
type DateColumnsRow struct {
	FileName    string `json:"File Name"`
	DateColumns string `json:"Date Columns"`
}

var relationshipHeader = []string{"Child Table", "Child Column (FK)", "Parent Table", "Parent Column (PK)", "Cardinality"}

var primaryKeyHeader = []string{"Table", "Primary Key Candidates"}

var dateColumnsHeader = []string{"File Name", "Date Columns"}

// RelationshipRows renders the model's relationships in their inferred
// (deterministic) order.
func RelationshipRows(model *models.SchemaModel) []RelationshipRow {
	rows := make([]RelationshipRow, 0, len(model.Relationships))
	for _, rel := range model.Relationships {
		rows = append(rows, RelationshipRow{
			ChildTable:   rel.ChildTable,
			ChildColumn:  rel.ChildColumn,
			ParentTable:  rel.ParentTable,
			ParentColumn: rel.ParentColumn,
			Cardinality:  string(rel.Cardinality),
		})
	}
	return rows
}

// PrimaryKeyRows renders one row per table in declaration order.
func PrimaryKeyRows(model *models.SchemaModel) []PrimaryKeyRow {
	rows := make([]PrimaryKeyRow, 0, len(model.TableOrder))
	for _, table := range model.TableOrder {
		rows = append(rows, PrimaryKeyRow{
			Table:      table,
			Candidates: strings.Join(model.PKCandidates[table], ", "),
		})
	}
	return rows
}

// DateColumnsRows renders one row per table; tables without date-like
// columns carry the literal string "None".
func DateColumnsRows(model *models.SchemaModel) []DateColumnsRow {
	rows := make([]DateColumnsRow, 0, len(model.TableOrder))
	for _, table := range model.TableOrder {
		cols := model.DateColumns[table]
		rendered := "None"
		if len(cols) > 0 {
			rendered = strings.Join(cols, ", ")
		}
		rows = append(rows, DateColumnsRow{FileName: table, DateColumns: rendered})
	}
	return rows
}
