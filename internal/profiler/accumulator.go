package profiler

import (
	"fmt"

	"github.com/araddon/dateparse"
	"github.com/pratapwarrohit13/OCPM-ENTITY-RELATIONSHIP/pkg/models"
	"github.com/sirupsen/logrus"
)

// DateSampleRows bounds the prefix of rows whose values feed date-like
// detection. Detection is a sampling heuristic, not an exact guarantee.
const DateSampleRows = 1000

// Accumulator folds row chunks of one table into a TableProfile. Chunks
// must be added sequentially; Finalize yields the frozen profile.
type Accumulator struct {
	profile      *models.TableProfile
	dateSamples  map[string][]string
	sampledRows  int
	fallbackSeen map[string]bool
	diagnostics  []models.Diagnostic
	logger       *logrus.Logger
}

// NewAccumulator creates an accumulator for one table. Columns and type
// hints come from the reader's first chunk and are fixed thereafter.
func NewAccumulator(name string, columns []string, types []models.ColumnType, logger *logrus.Logger) *Accumulator {
	profile := &models.TableProfile{
		Name:     name,
		Columns:  append([]string(nil), columns...),
		Types:    make(map[string]models.ColumnType, len(columns)),
		HasNulls: make(map[string]bool, len(columns)),
		Distinct: make(map[string]map[string]struct{}, len(columns)),
	}
	for i, col := range columns {
		profile.Types[col] = types[i]
		profile.Distinct[col] = make(map[string]struct{})
	}

	return &Accumulator{
		profile:      profile,
		dateSamples:  make(map[string][]string),
		fallbackSeen: make(map[string]bool),
		logger:       logger,
	}
}

// Add folds one chunk into the accumulator.
func (a *Accumulator) Add(chunk *models.Chunk) error {
	if len(chunk.Columns) != len(a.profile.Columns) {
		return fmt.Errorf("chunk has %d columns, table %s declared %d",
			len(chunk.Columns), a.profile.Name, len(a.profile.Columns))
	}

	for _, row := range chunk.Rows {
		a.profile.RowCount++
		sampleRow := a.sampledRows < DateSampleRows
		if sampleRow {
			a.sampledRows++
		}

		for i, col := range a.profile.Columns {
			var v interface{}
			if i < len(row) {
				v = row[i]
			}
			if v == nil {
				a.profile.HasNulls[col] = true
				continue
			}

			a.checkCoercion(col, v)
			canonical := models.CanonicalValue(v)
			a.profile.Distinct[col][canonical] = struct{}{}

			if sampleRow && a.profile.Types[col] == models.TypeString {
				a.dateSamples[col] = append(a.dateSamples[col], canonical)
			}
		}
	}
	return nil
}

// checkCoercion records a string fallback when a value does not conform to
// the column's established type. The load keeps going; the dtype stays.
func (a *Accumulator) checkCoercion(col string, v interface{}) {
	expected := a.profile.Types[col]
	ok := true
	switch v.(type) {
	case int64:
		ok = expected == models.TypeInteger
	case float64:
		ok = expected == models.TypeFloat
	case bool:
		ok = expected == models.TypeBoolean
	case string:
		ok = !expected.IsNumeric() && expected != models.TypeBoolean
	}
	if ok || a.fallbackSeen[col] {
		return
	}

	a.fallbackSeen[col] = true
	msg := fmt.Sprintf("value did not coerce to %s, stored as string", expected)
	a.logger.Warningf("Table %s column %s: %s", a.profile.Name, col, msg)
	a.diagnostics = append(a.diagnostics, models.Diagnostic{
		Stage:   "profile",
		Table:   a.profile.Name,
		Column:  col,
		Message: msg,
	})
}

// Finalize runs date-like detection over the sampled prefix and returns the
// frozen profile.
func (a *Accumulator) Finalize() *models.TableProfile {
	for _, col := range a.profile.Columns {
		if a.profile.Types[col] != models.TypeString {
			continue
		}
		samples := a.dateSamples[col]
		if len(samples) == 0 {
			continue
		}
		if allDateLike(samples) {
			a.profile.Types[col] = models.TypeDateLike
			a.profile.DateColumns = append(a.profile.DateColumns, col)
		}
	}
	return a.profile
}

// Diagnostics returns the per-column problems recorded during the fold.
func (a *Accumulator) Diagnostics() []models.Diagnostic {
	return a.diagnostics
}

// allDateLike reports whether every sampled value parses under the generic
// date/time grammar. One failure disqualifies the column.
func allDateLike(samples []string) bool {
	for _, s := range samples {
		if _, err := dateparse.ParseAny(s); err != nil {
			return false
		}
	}
	return true
}
