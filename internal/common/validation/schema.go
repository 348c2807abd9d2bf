// Package validation defines the typed form schemas used to turn submitted
// form values into backend payloads. Each entity declares its fields once
// (name, type, required flag, pattern); the declaration drives both the
// form→payload mapping and the client-side validation pass.
package validation

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/xeipuuv/gojsonschema"
)

// Field declares a single form field.
type Field struct {
	Name      string
	Type      string // "string" or "number"
	Required  bool
	Pattern   string
	MinLength int
}

// FormSchema declares the full field set for one entity form.
type FormSchema struct {
	Name   string
	Fields []Field
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Details flattens the errors into one string for StandardError.Details.
func (r *ValidationResult) Details() string {
	if r.Valid {
		return ""
	}
	out := ""
	for i, e := range r.Errors {
		if i > 0 {
			out += "; "
		}
		out += fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return out
}

// jsonSchema renders the declaration as a JSON Schema document.
func (s FormSchema) jsonSchema() map[string]interface{} {
	properties := map[string]interface{}{}
	required := []string{}

	for _, f := range s.Fields {
		prop := map[string]interface{}{"type": f.Type}
		if f.Pattern != "" {
			prop["pattern"] = f.Pattern
		}
		if f.MinLength > 0 {
			prop["minLength"] = f.MinLength
		}
		properties[f.Name] = prop
		if f.Required {
			required = append(required, f.Name)
		}
	}

	schema := map[string]interface{}{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// Validate checks a payload against the schema.
func (s FormSchema) Validate(payload map[string]interface{}) *ValidationResult {
	schemaLoader := gojsonschema.NewGoLoader(s.jsonSchema())
	documentLoader := gojsonschema.NewGoLoader(payload)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   s.Name,
				Message: err.Error(),
				Code:    "SCHEMA_ERROR",
			}},
		}
	}

	if result.Valid() {
		return &ValidationResult{Valid: true}
	}

	errors := make([]ValidationError, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		errors = append(errors, ValidationError{
			Field:   re.Field(),
			Message: re.Description(),
			Code:    re.Type(),
		})
	}
	return &ValidationResult{Valid: false, Errors: errors}
}

// PayloadFromForm extracts the schema's fields from submitted form values
// by name, coercing number fields. Unknown form fields are ignored; absent
// optional fields are omitted rather than sent empty.
func (s FormSchema) PayloadFromForm(values url.Values) map[string]interface{} {
	payload := map[string]interface{}{}
	for _, f := range s.Fields {
		if !values.Has(f.Name) {
			continue
		}
		raw := values.Get(f.Name)
		if raw == "" && !f.Required {
			continue
		}
		if f.Type == "number" {
			if n, err := strconv.ParseFloat(raw, 64); err == nil {
				payload[f.Name] = n
				continue
			}
		}
		payload[f.Name] = raw
	}
	return payload
}

// DealerForm is the add/edit dealer modal's field set.
var DealerForm = FormSchema{
	Name: "dealer",
	Fields: []Field{
		{Name: "dealerName", Type: "string", Required: true, MinLength: 1},
		{Name: "dealerId", Type: "string", Required: true, MinLength: 1},
		{Name: "email", Type: "string", Required: true, Pattern: `^[^@\s]+@[^@\s]+\.[^@\s]+$`},
		{Name: "contact", Type: "string", Required: true, MinLength: 1},
		{Name: "vin", Type: "string"},
		{Name: "address", Type: "string"},
	},
}

// SubmissionForm covers the vehicle-submission fields; the dashboard only
// views and deletes submissions today, but the schema keeps the payload
// mapping in one place for when the create form lands.
var SubmissionForm = FormSchema{
	Name: "submission",
	Fields: []Field{
		{Name: "dealerId", Type: "string", Required: true, MinLength: 1},
		{Name: "vin", Type: "string", Required: true, MinLength: 1},
		{Name: "vehicleYear", Type: "number", Required: true},
		{Name: "model", Type: "string", Required: true},
		{Name: "series", Type: "string"},
		{Name: "mileage", Type: "number", Required: true},
		{Name: "interiorChoice", Type: "string"},
		{Name: "auction", Type: "string"},
		{Name: "floorPrice", Type: "number", Required: true},
		{Name: "announcement", Type: "string"},
		{Name: "remarks", Type: "string"},
	},
}
