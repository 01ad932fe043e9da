package models

import (
	"fmt"
	"strconv"
)

// ColumnType is the inferred scalar type bucket of a column.
type ColumnType int

const (
	TypeInteger ColumnType = iota
	TypeFloat
	TypeBoolean
	TypeDateLike
	TypeString
)

// String returns the display name of the column type.
func (ct ColumnType) String() string {
	switch ct {
	case TypeInteger:
		return "Integer"
	case TypeFloat:
		return "Float"
	case TypeBoolean:
		return "Boolean"
	case TypeDateLike:
		return "DateLike"
	default:
		return "String"
	}
}

// IsNumeric reports whether the type is one of the numeric buckets.
func (ct ColumnType) IsNumeric() bool {
	return ct == TypeInteger || ct == TypeFloat
}

// Chunk is one batch of rows delivered by a tabular reader.
// Cell values are typed: int64, float64, bool, string, or nil.
type Chunk struct {
	Columns []string
	Rows    [][]interface{}
}

// TableProfile holds the per-column statistics of one loaded table.
// It is built incrementally during load and treated as read-only afterwards.
type TableProfile struct {
	Name        string
	RowCount    int
	Columns     []string
	Types       map[string]ColumnType
	HasNulls    map[string]bool
	Distinct    map[string]map[string]struct{}
	DateColumns []string
}

// IsUniqueColumn reports whether the column has no nulls and as many
// distinct values as the table has rows.
func (tp *TableProfile) IsUniqueColumn(col string) bool {
	if tp.HasNulls[col] {
		return false
	}
	return len(tp.Distinct[col]) == tp.RowCount
}

// Cardinality classifies a relationship from the child side.
type Cardinality string

const (
	OneToOne  Cardinality = "1:1"
	ManyToOne Cardinality = "n:1"
)

// Relationship is one inferred foreign-key relationship between two tables.
type Relationship struct {
	ChildTable   string
	ChildColumn  string
	ParentTable  string
	ParentColumn string
	Cardinality  Cardinality
}

// Diagnostic records a per-item problem that was skipped without
// aborting the run.
type Diagnostic struct {
	Stage   string
	Table   string
	Column  string
	Message string
}

// SchemaModel is the aggregate result of one inference run.
type SchemaModel struct {
	Profiles      map[string]*TableProfile
	TableOrder    []string
	PKCandidates  map[string][]string
	Relationships []Relationship
	DateColumns   map[string][]string
	Diagnostics   []Diagnostic
}

// CanonicalValue renders a typed cell value as the string key used in
// distinct-value sets. Integer and whole-float renderings collide on
// purpose (1 and 1.0 are the same value), so containment stays meaningful
// across the numeric buckets the type gate admits. Floats render in plain
// decimal, never exponent form, so integral floats of any magnitude share
// their integer rendering.
func CanonicalValue(v interface{}) string {
	switch val := v.(type) {
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}
