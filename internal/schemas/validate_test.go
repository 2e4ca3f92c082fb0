package schemas

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateJSON_ValidJSON(t *testing.T) {
	err := ValidateJSON(filepath.Join("testdata", "valid_schema.json"), filepath.Join("testdata", "valid_json.json"))
	assert.NoError(t, err)
}

func TestValidateJSON_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		jsonFile string
	}{
		{name: "missing field", jsonFile: "invalid_json.json"},
		{name: "wrong type", jsonFile: "type_mismatch.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJSON(filepath.Join("testdata", "valid_schema.json"), filepath.Join("testdata", tt.jsonFile))
			require.Error(t, err)

			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr), "error should be ValidationError type")
			assert.NotEmpty(t, validationErr.Errors)
		})
	}
}

func TestValidateJSON_NonExistentFiles(t *testing.T) {
	err := ValidateJSON("testdata/nonexistent_schema.json", filepath.Join("testdata", "valid_json.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	err = ValidateJSON(filepath.Join("testdata", "valid_schema.json"), "testdata/nonexistent_json.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateJSON_MalformedJSON(t *testing.T) {
	malformed := filepath.Join(t.TempDir(), "malformed.json")
	require.NoError(t, os.WriteFile(malformed, []byte("{ invalid json }"), 0644))

	err := ValidateJSON(filepath.Join("testdata", "valid_schema.json"), malformed)
	require.Error(t, err)
}

func TestValidateJSONString(t *testing.T) {
	schema := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["name"],
		"properties": {"name": {"type": "string"}}
	}`

	assert.NoError(t, ValidateJSONString(schema, `{"name": "test"}`))

	err := ValidateJSONString(schema, `{"age": 30}`)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "(root)", validationErr.Errors[0].Field)
}

func TestValidateJSONString_BadSchema(t *testing.T) {
	err := ValidateJSONString(`{"type": 12}`, `{}`)

	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Errors: []FieldError{
			{Field: "name", Message: "is required"},
			{Field: "skills.0", Message: "must be a string"},
		},
	}

	msg := err.Error()
	assert.Contains(t, msg, "validation failed")
	assert.Contains(t, msg, "1. name: is required")
	assert.Contains(t, msg, "2. skills.0: must be a string")
}

func TestValidateResumeData(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		wantField string
	}{
		{name: "empty object", doc: `{}`},
		{
			name: "full document",
			doc: `{
				"name": "Ada Lovelace",
				"email": "ada@example.com",
				"phone": "",
				"education": [{"school": "MIT", "degree": "BSc", "year": ""}],
				"experience": [{"company": "Analytical Engines", "role": "Programmer", "year": "1843"}],
				"skills": ["math", ""],
				"social": {"github": "gh/ada"}
			}`,
		},
		{name: "skills must be strings", doc: `{"skills": [1, 2]}`, wantField: "skills.0"},
		{name: "unknown education field", doc: `{"education": [{"university": "MIT"}]}`, wantField: "education.0"},
		{name: "unknown top-level field", doc: `{"address": "London"}`, wantField: "(root)"},
		{name: "social must be object", doc: `{"social": "gh/ada"}`, wantField: "social"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateResumeData([]byte(tt.doc))
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			var fields []string
			for _, fe := range validationErr.Errors {
				fields = append(fields, fe.Field)
			}
			assert.Contains(t, fields, tt.wantField)
		})
	}
}

func TestValidateResumeDataFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name": "Grace"}`), 0644))

	assert.NoError(t, ValidateResumeDataFile(path))
	assert.Error(t, ValidateResumeDataFile(filepath.Join(t.TempDir(), "missing.json")))
}
