package analyzer

import (
	"sort"

	"github.com/pratapwarrohit13/OCPM-ENTITY-RELATIONSHIP/pkg/models"
	"github.com/yourbasic/graph"
)

// DependencyAnalysis views the inferred relationships as a directed graph
// between tables, with an edge from each parent to each of its children.
type DependencyAnalysis struct {
	order   []string
	indexOf map[string]int
	graph   *graph.Mutable
}

// NewDependencyAnalysis builds the table dependency graph of a schema model.
func NewDependencyAnalysis(model *models.SchemaModel) *DependencyAnalysis {
	da := &DependencyAnalysis{
		order:   model.TableOrder,
		indexOf: make(map[string]int, len(model.TableOrder)),
	}
	for i, table := range model.TableOrder {
		da.indexOf[table] = i
	}

	da.graph = graph.New(len(model.TableOrder))
	for _, rel := range model.Relationships {
		parent, pok := da.indexOf[rel.ParentTable]
		child, cok := da.indexOf[rel.ChildTable]
		if pok && cok && parent != child {
			da.graph.Add(parent, child)
		}
	}
	return da
}

// CircularTables returns the tables involved in reference cycles, plus the
// strongly connected groups that form them.
func (da *DependencyAnalysis) CircularTables() (map[string]bool, [][]string) {
	circular := make(map[string]bool)
	var groups [][]string

	for _, component := range graph.StrongComponents(da.graph) {
		if len(component) < 2 {
			continue
		}
		group := make([]string, 0, len(component))
		for _, v := range component {
			table := da.order[v]
			circular[table] = true
			group = append(group, table)
		}
		sort.Strings(group)
		groups = append(groups, group)
	}
	return circular, groups
}

// TableLoadOrder returns a load order that respects the inferred foreign
// keys: parent tables come before their children. Tables caught in a cycle
// go last, sorted by name for determinism.
func (da *DependencyAnalysis) TableLoadOrder() []string {
	circular, _ := da.CircularTables()

	// Rebuild the graph without the circular tables so the remainder is
	// acyclic and topologically sortable.
	acyclic := graph.New(len(da.order))
	for v := 0; v < len(da.order); v++ {
		if circular[da.order[v]] {
			continue
		}
		da.graph.Visit(v, func(w int, _ int64) bool {
			if !circular[da.order[w]] {
				acyclic.Add(v, w)
			}
			return false
		})
	}

	sorted, _ := graph.TopSort(acyclic)
	ordered := make([]string, 0, len(da.order))
	for _, v := range sorted {
		if !circular[da.order[v]] {
			ordered = append(ordered, da.order[v])
		}
	}

	var tail []string
	for table := range circular {
		tail = append(tail, table)
	}
	sort.Strings(tail)
	return append(ordered, tail...)
}
