package structured

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// ValidateSchema checks a JSON document against a JSON Schema. A valid
// document returns nil violations; an invalid one returns one
// human-readable violation per failed constraint.
func ValidateSchema(doc *Document, schema []byte) ([]string, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schema),
		gojsonschema.NewBytesLoader(doc.Bytes()),
	)
	if err != nil {
		return nil, fmt.Errorf("validating schema: %w", err)
	}

	if result.Valid() {
		return nil, nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		violations = append(violations, re.String())
	}
	return violations, nil
}
