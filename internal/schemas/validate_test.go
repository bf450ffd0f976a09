package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var scoresSchema = []byte(`{
	"type": "object",
	"properties": {
		"scores": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"skill_id": {"type": "string"},
					"score": {"type": "integer", "minimum": 0, "maximum": 4}
				},
				"required": ["skill_id", "score"]
			}
		}
	},
	"required": ["scores"]
}`)

func TestValidateBytes_Valid(t *testing.T) {
	doc := []byte(`{"scores": [{"skill_id": "sql", "score": 3}]}`)
	assert.NoError(t, ValidateBytes(scoresSchema, doc))
}

func TestValidateBytes_MissingRequiredField(t *testing.T) {
	doc := []byte(`{"scores": [{"skill_id": "sql"}]}`)
	err := ValidateBytes(scoresSchema, doc)
	require.Error(t, err)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.NotEmpty(t, ve.Errors)
}

func TestValidateBytes_OutOfRange(t *testing.T) {
	doc := []byte(`{"scores": [{"skill_id": "sql", "score": 9}]}`)
	err := ValidateBytes(scoresSchema, doc)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
}

func TestValidateBytes_MalformedDocument(t *testing.T) {
	err := ValidateBytes(scoresSchema, []byte(`not json`))
	require.Error(t, err)

	var le *SchemaLoadError
	assert.True(t, errors.As(err, &le))
}

func TestValidateBytes_MalformedSchema(t *testing.T) {
	err := ValidateBytes([]byte(`{`), []byte(`{}`))
	require.Error(t, err)
}
