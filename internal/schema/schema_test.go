package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSchema = Schema{
	Name: "test-object",
	Definition: `{
		"type": "object",
		"required": ["users"],
		"properties": {"users": {"type": "object"}}
	}`,
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", `{"users": {}}`, false},
		{"missing users", `{"people": {}}`, true},
		{"users wrong type", `{"users": []}`, true},
		{"not an object", `[1, 2]`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Decode([]byte(tt.input))
			require.NoError(t, err)
			err = Validate(testSchema, v)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDecode_InvalidJSON(t *testing.T) {
	_, err := Decode([]byte(`{"users":`))
	assert.Error(t, err)
}

func TestValidate_BadDefinition(t *testing.T) {
	bad := Schema{Name: "broken", Definition: `{"type": 12`}
	err := Validate(bad, map[string]any{})
	assert.Error(t, err)
}
