package analyzer

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/pratapwarrohit13/OCPM-ENTITY-RELATIONSHIP/pkg/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// SchemaAnalyzer detects primary-key candidates and infers foreign-key
// relationships across a set of frozen table profiles.
type SchemaAnalyzer struct {
	Logger  *logrus.Logger
	Workers int
}

// NewSchemaAnalyzer creates a new schema analyzer. workers bounds the
// relationship fan-out; zero means one worker per CPU.
func NewSchemaAnalyzer(logger *logrus.Logger, workers int) *SchemaAnalyzer {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &SchemaAnalyzer{
		Logger:  logger,
		Workers: workers,
	}
}

// Analyze runs the full pass over frozen profiles: PK detection,
// relationship inference, and model assembly. order is the declaration
// order of the tables and fixes the output ordering.
func (sa *SchemaAnalyzer) Analyze(profiles map[string]*models.TableProfile, order []string, diagnostics []models.Diagnostic) (*models.SchemaModel, error) {
	if len(profiles) == 0 {
		return nil, &models.NoDataError{}
	}

	sa.Logger.Info("Detecting primary keys...")
	pkCandidates := make(map[string][]string, len(profiles))
	for _, name := range order {
		pks := DetectPrimaryKeys(profiles[name])
		pkCandidates[name] = pks
		if len(pks) > 0 {
			sa.Logger.Infof("Table '%s': found %d PK candidates (%s)", name, len(pks), strings.Join(pks, ", "))
		} else {
			sa.Logger.Infof("Table '%s': no PK candidates found", name)
		}
	}

	dateColumns := make(map[string][]string, len(profiles))
	for _, name := range order {
		dateColumns[name] = profiles[name].DateColumns
	}

	sa.Logger.Infof("Analyzing %d tables for relationships...", len(order))
	relationships, relDiags := sa.InferRelationships(profiles, order, pkCandidates)
	sa.Logger.Infof("Relationship analysis complete, found %d relationships", len(relationships))

	return &models.SchemaModel{
		Profiles:      profiles,
		TableOrder:    append([]string(nil), order...),
		PKCandidates:  pkCandidates,
		Relationships: relationships,
		DateColumns:   dateColumns,
		Diagnostics:   append(diagnostics, relDiags...),
	}, nil
}

// InferRelationships compares every ordered (child, parent) table pair.
// Pairs fan out across a worker pool; each pair's results land in its own
// slot so the concatenated output is deterministic regardless of
// scheduling.
func (sa *SchemaAnalyzer) InferRelationships(profiles map[string]*models.TableProfile, order []string, pkCandidates map[string][]string) ([]models.Relationship, []models.Diagnostic) {
	type pair struct {
		child  string
		parent string
	}
	var pairs []pair
	for _, child := range order {
		for _, parent := range order {
			if child == parent {
				continue
			}
			pairs = append(pairs, pair{child: child, parent: parent})
		}
	}

	relSlots := make([][]models.Relationship, len(pairs))
	diagSlots := make([][]models.Diagnostic, len(pairs))

	var g errgroup.Group
	g.SetLimit(sa.Workers)
	for i, p := range pairs {
		i, p := i, p
		g.Go(func() error {
			relSlots[i], diagSlots[i] = sa.comparePair(profiles[p.child], profiles[p.parent], pkCandidates[p.parent])
			return nil
		})
	}
	g.Wait()

	var relationships []models.Relationship
	var diagnostics []models.Diagnostic
	for i := range pairs {
		relationships = append(relationships, relSlots[i]...)
		diagnostics = append(diagnostics, diagSlots[i]...)
	}
	return relationships, diagnostics
}

// comparePair tests every (parent PK, child column) combination of one
// ordered table pair. A failure checking one combination is recorded and
// skipped; it never aborts the scan.
func (sa *SchemaAnalyzer) comparePair(child, parent *models.TableProfile, parentPKs []string) ([]models.Relationship, []models.Diagnostic) {
	var relationships []models.Relationship
	var diagnostics []models.Diagnostic

	for _, pk := range parentPKs {
		for _, col := range child.Columns {
			rel, err := sa.checkCandidate(child, col, parent, pk)
			if err != nil {
				sa.Logger.Warningf("%v", err)
				diagnostics = append(diagnostics, models.Diagnostic{
					Stage:   "infer",
					Table:   child.Name,
					Column:  col,
					Message: err.Error(),
				})
				continue
			}
			if rel != nil {
				sa.Logger.Debugf("Found %s relation: %s.%s -> %s.%s",
					rel.Cardinality, rel.ChildTable, rel.ChildColumn, rel.ParentTable, rel.ParentColumn)
				relationships = append(relationships, *rel)
			}
		}
	}
	return relationships, diagnostics
}

// checkCandidate applies the gate pipeline to one (child column, parent PK)
// combination and classifies cardinality on a match.
func (sa *SchemaAnalyzer) checkCandidate(child *models.TableProfile, col string, parent *models.TableProfile, pk string) (rel *models.Relationship, err error) {
	defer func() {
		if r := recover(); r != nil {
			// The recovery itself must not dereference whatever broke.
			checkErr := &models.RelationshipCheckError{
				ChildColumn:  col,
				ParentColumn: pk,
				Err:          fmt.Errorf("%v", r),
			}
			if child != nil {
				checkErr.ChildTable = child.Name
			}
			if parent != nil {
				checkErr.ParentTable = parent.Name
			}
			rel, err = nil, checkErr
		}
	}()

	if !nameGate(col, pk, parent.Name) {
		return nil, nil
	}
	if !typeGate(child.Types[col], parent.Types[pk]) {
		return nil, nil
	}
	if !containmentGate(child.Distinct[col], parent.Distinct[pk]) {
		return nil, nil
	}

	cardinality := models.ManyToOne
	if child.IsUniqueColumn(col) {
		cardinality = models.OneToOne
	}

	return &models.Relationship{
		ChildTable:   child.Name,
		ChildColumn:  col,
		ParentTable:  parent.Name,
		ParentColumn: pk,
		Cardinality:  cardinality,
	}, nil
}
