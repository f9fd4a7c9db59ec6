package resume

import (
	_ "embed"
	"encoding/json"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/yoockh/cvcraft/internal/utils"
)

//go:embed resume.schema.json
var schemaJSON []byte

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
	})
	return schema, schemaErr
}

// Parse validates an incoming payload and returns it in canonical form.
// Missing sections are allowed and come back as empty lists; wrongly typed
// fields are rejected.
func Parse(raw []byte) (Data, error) {
	const op = "resume.Parse"

	if !json.Valid(raw) {
		return Data{}, utils.E(utils.CodeValidation, op, "data is not valid JSON", nil)
	}

	// The legacy key is only honoured when reading stored rows.
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err == nil {
		if _, ok := top["certificates"]; ok {
			return Data{}, utils.E(utils.CodeValidation, op, "certificates is not accepted, use certifications", nil)
		}
	}

	s, err := compiledSchema()
	if err != nil {
		return Data{}, utils.E(utils.CodeInternal, op, "resume schema failed to compile", err)
	}

	res, err := s.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return Data{}, utils.E(utils.CodeValidation, op, "data could not be validated", err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return Data{}, utils.E(utils.CodeValidation, op, "schema validation failed: "+strings.Join(msgs, "; "), nil)
	}

	var d Data
	if err := json.Unmarshal(raw, &d); err != nil {
		return Data{}, utils.E(utils.CodeValidation, op, "data does not match the resume shape", err)
	}
	d.Normalize()
	return d, nil
}
