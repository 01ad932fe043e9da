package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pratapwarrohit13/OCPM-ENTITY-RELATIONSHIP/pkg/models"
)

// SanitizeIdentifier turns a file name into a SQL table identifier:
// extension stripped, spaces and hyphens replaced with underscores.
func SanitizeIdentifier(name string) string {
	ident := strings.TrimSuffix(name, filepath.Ext(name))
	ident = strings.ReplaceAll(ident, " ", "_")
	return strings.ReplaceAll(ident, "-", "_")
}

func sanitizeColumn(name string) string {
	ident := strings.ReplaceAll(name, " ", "_")
	return strings.ReplaceAll(ident, "-", "_")
}

func sqlType(ct models.ColumnType) string {
	switch ct {
	case models.TypeInteger:
		return "INT"
	case models.TypeFloat:
		return "FLOAT"
	case models.TypeBoolean:
		return "BOOLEAN"
	case models.TypeDateLike:
		return "TIMESTAMP"
	default:
		return "VARCHAR(255)"
	}
}

// DDLStatements derives one CREATE TABLE per table followed by one foreign
// key alteration per relationship. The first PK candidate in declared
// column order becomes the primary key; remaining candidates become UNIQUE
// constraints rather than being folded into a composite key.
func DDLStatements(model *models.SchemaModel) []string {
	var statements []string

	for _, table := range model.TableOrder {
		profile := model.Profiles[table]
		var lines []string
		for _, col := range profile.Columns {
			lines = append(lines, fmt.Sprintf("    %s %s", sanitizeColumn(col), sqlType(profile.Types[col])))
		}

		pks := model.PKCandidates[table]
		if len(pks) > 0 {
			lines = append(lines, fmt.Sprintf("    PRIMARY KEY (%s)", sanitizeColumn(pks[0])))
			for _, pk := range pks[1:] {
				lines = append(lines, fmt.Sprintf("    UNIQUE (%s)", sanitizeColumn(pk)))
			}
		}

		statements = append(statements, fmt.Sprintf("CREATE TABLE %s (\n%s\n);",
			SanitizeIdentifier(table), strings.Join(lines, ",\n")))
	}

	for _, rel := range model.Relationships {
		statements = append(statements, fmt.Sprintf(
			"ALTER TABLE %s ADD FOREIGN KEY (%s) REFERENCES %s (%s);",
			SanitizeIdentifier(rel.ChildTable), sanitizeColumn(rel.ChildColumn),
			SanitizeIdentifier(rel.ParentTable), sanitizeColumn(rel.ParentColumn)))
	}

	return statements
}

// JoinStatements derives one SELECT-JOIN statement per relationship.
func JoinStatements(model *models.SchemaModel) []string {
	var statements []string
	for _, rel := range model.Relationships {
		child := SanitizeIdentifier(rel.ChildTable)
		parent := SanitizeIdentifier(rel.ParentTable)
		statements = append(statements, fmt.Sprintf(
			"SELECT * FROM %s JOIN %s ON %s.%s = %s.%s;",
			child, parent,
			child, sanitizeColumn(rel.ChildColumn),
			parent, sanitizeColumn(rel.ParentColumn)))
	}
	return statements
}

// WriteSQLScript writes the DDL followed by the join statements.
func WriteSQLScript(path string, model *models.SchemaModel) error {
	var b strings.Builder
	b.WriteString("-- Generated schema\n\n")
	for _, stmt := range DDLStatements(model) {
		b.WriteString(stmt)
		b.WriteString("\n\n")
	}
	b.WriteString("-- Suggested joins\n\n")
	for _, stmt := range JoinStatements(model) {
		b.WriteString(stmt)
		b.WriteString("\n")
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}
