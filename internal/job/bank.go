package job

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// QuestionBank is the shared application-form question catalog. It is
// edited and persisted as one document, replaced wholesale on save.
type QuestionBank struct {
	General  []Question `json:"general"`
	Personal []Question `json:"personal"`
}

// KnownIDs returns the set of question IDs the bank currently holds.
func (b *QuestionBank) KnownIDs() map[string]bool {
	known := make(map[string]bool, len(b.General)+len(b.Personal))
	for _, q := range b.General {
		known[q.ID] = true
	}
	for _, q := range b.Personal {
		known[q.ID] = true
	}
	return known
}

const bankSchema = `{
	"type": "object",
	"required": ["general", "personal"],
	"additionalProperties": false,
	"properties": {
		"general":  {"$ref": "#/definitions/questionList"},
		"personal": {"$ref": "#/definitions/questionList"}
	},
	"definitions": {
		"questionList": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["id", "label", "type"],
				"additionalProperties": false,
				"properties": {
					"id":       {"type": "string", "minLength": 1},
					"label":    {"type": "string", "minLength": 1},
					"type":     {"type": "string", "enum": ["text", "textarea", "select", "multiselect", "checkbox", "number", "date", "file"]},
					"required": {"type": "boolean"},
					"options":  {"type": "array", "items": {"type": "string"}}
				}
			}
		}
	}
}`

var bankSchemaLoader = gojsonschema.NewStringLoader(bankSchema)

// ValidateBank checks a raw bank document against the schema and decodes
// it. Duplicate question IDs across both lists are rejected as well.
func ValidateBank(raw []byte) (*QuestionBank, error) {
	result, err := gojsonschema.Validate(bankSchemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("question bank is not valid JSON: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return nil, fmt.Errorf("question bank schema violation: %s", strings.Join(msgs, "; "))
	}

	var bank QuestionBank
	if err := json.Unmarshal(raw, &bank); err != nil {
		return nil, fmt.Errorf("decode question bank: %w", err)
	}

	seen := make(map[string]bool)
	for _, q := range append(append([]Question{}, bank.General...), bank.Personal...) {
		if seen[q.ID] {
			return nil, fmt.Errorf("duplicate question id %q", q.ID)
		}
		seen[q.ID] = true
	}
	return &bank, nil
}
