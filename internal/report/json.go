package report

import (
	"encoding/json"
	"os"

	"github.com/pratapwarrohit13/OCPM-ENTITY-RELATIONSHIP/pkg/models"
)

// Document is the JSON rendering of a schema model.
type Document struct {
	Relationships []RelationshipRow   `json:"relationships"`
	PrimaryKeys   map[string][]string `json:"primary_keys"`
	DateColumns   []DateColumnsRow    `json:"date_columns"`
}

// BuildDocument assembles the JSON document for a model.
func BuildDocument(model *models.SchemaModel) Document {
	primaryKeys := make(map[string][]string, len(model.TableOrder))
	for _, table := range model.TableOrder {
		pks := model.PKCandidates[table]
		if pks == nil {
			pks = []string{}
		}
		primaryKeys[table] = pks
	}

	relationships := RelationshipRows(model)
	if relationships == nil {
		relationships = []RelationshipRow{}
	}

	return Document{
		Relationships: relationships,
		PrimaryKeys:   primaryKeys,
		DateColumns:   DateColumnsRows(model),
	}
}

// WriteJSON writes the document to path.
func WriteJSON(path string, model *models.SchemaModel) error {
	data, err := json.MarshalIndent(BuildDocument(model), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
