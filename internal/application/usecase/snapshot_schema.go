package usecase

import (
	"github.com/invopop/jsonschema"

	"github.com/bnema/careshell/internal/domain/entity"
)

// SnapshotSchema describes the stored {tabs, activeId} value.
func SnapshotSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		DoNotReference: true,
		// Extra fields are ignored on load.
		AllowAdditionalProperties: true,
	}
	schema := r.Reflect(&entity.TabSet{})
	schema.ID = "https://github.com/bnema/careshell/tab-snapshot.schema.json"
	schema.Title = "careshell tab snapshot"
	schema.Description = "Value stored under <prefix>:<clientID>. Tab ids equal their href."
	return schema
}
