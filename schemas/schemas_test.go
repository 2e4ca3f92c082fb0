package schemas

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllSchemaFiles_ValidJSON(t *testing.T) {
	names := Names()
	require.Contains(t, names, ResumeDataFile)

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			data, err := Read(name)
			require.NoError(t, err)

			var schemaObj map[string]interface{}
			require.NoError(t, json.Unmarshal(data, &schemaObj), "schema file should be valid JSON")

			_, hasType := schemaObj["type"]
			_, hasSchema := schemaObj["$schema"]
			assert.True(t, hasType && hasSchema, "schema should declare $schema and type")
		})
	}
}

func TestResumeDataSchema_CoversJSONFields(t *testing.T) {
	data, err := Read(ResumeDataFile)
	require.NoError(t, err)

	var schemaObj struct {
		Properties map[string]interface{} `json:"properties"`
	}
	require.NoError(t, json.Unmarshal(data, &schemaObj))

	for _, field := range []string{"name", "email", "phone", "education", "experience", "skills", "social"} {
		assert.Contains(t, schemaObj.Properties, field)
	}
}

func TestRead_Missing(t *testing.T) {
	_, err := Read("missing.schema.json")
	assert.Error(t, err)
}
