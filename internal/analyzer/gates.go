package analyzer

import (
	"path/filepath"
	"strings"

	"github.com/pratapwarrohit13/OCPM-ENTITY-RELATIONSHIP/pkg/models"
)

// The three gates run in order and short-circuit on the first failure.
// Name and type are cheap screens; containment is the expensive set test.

// nameGate passes when the child column plausibly names the parent key:
// exact case-insensitive match, the parent table's singular stem appearing
// inside the child column, or the "_id" suffix convention against a parent
// key literally named "id".
func nameGate(childCol, parentPK, parentTable string) bool {
	c := strings.ToLower(childCol)
	pk := strings.ToLower(parentPK)

	if c == pk {
		return true
	}
	if stem := tableStem(parentTable); stem != "" && strings.Contains(c, stem) {
		return true
	}
	if pk == "id" && strings.HasSuffix(c, "_id") {
		return true
	}
	return false
}

// tableStem strips the file extension, lowercases, and drops a trailing
// plural "s": "Customers.csv" -> "customer".
func tableStem(table string) string {
	stem := strings.TrimSuffix(table, filepath.Ext(table))
	stem = strings.ToLower(stem)
	return strings.TrimSuffix(stem, "s")
}

// typeGate passes when both columns are numeric or both are not. Exact
// type equality is not required; an Integer child may reference a Float
// parent key.
func typeGate(childType, parentType models.ColumnType) bool {
	return childType.IsNumeric() == parentType.IsNumeric()
}

// containmentGate passes when the child's distinct values form a non-empty
// subset of the parent's. An empty child set never yields a relationship.
func containmentGate(child, parent map[string]struct{}) bool {
	if len(child) == 0 || len(child) > len(parent) {
		return false
	}
	for v := range child {
		if _, ok := parent[v]; !ok {
			return false
		}
	}
	return true
}
