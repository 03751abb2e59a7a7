package export

import (
	"encoding/json"
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/shopspring/decimal"
)

var decimalType = reflect.TypeOf(decimal.Decimal{})

// Schema returns the JSON Schema of the backup document
func Schema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
		// decimal.Decimal marshals as a quoted number
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t == decimalType {
				return &jsonschema.Schema{
					Type:    "string",
					Pattern: `^-?[0-9]+(\.[0-9]+)?$`,
				}
			}
			return nil
		},
	}

	schema := reflector.Reflect(&Backup{})
	schema.Title = "proinvoice backup"
	return json.MarshalIndent(schema, "", "  ")
}
