package analyzer

import "github.com/pratapwarrohit13/OCPM-ENTITY-RELATIONSHIP/pkg/models"

// DetectPrimaryKeys returns the single-column primary-key candidates of a
// profile: columns with no nulls and as many distinct values as rows.
// Output follows the table's declared column order. No composite-key
// search is performed.
func DetectPrimaryKeys(profile *models.TableProfile) []string {
	var candidates []string
	for _, col := range profile.Columns {
		if profile.IsUniqueColumn(col) {
			candidates = append(candidates, col)
		}
	}
	return candidates
}
