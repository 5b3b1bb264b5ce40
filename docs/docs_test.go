package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestSwaggerDocument(t *testing.T) {
	raw, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var doc struct {
		BasePath    string                                `json:"basePath"`
		Paths       map[string]map[string]json.RawMessage `json:"paths"`
		Definitions map[string]json.RawMessage            `json:"definitions"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	assert.Equal(t, "/api/v1", doc.BasePath)

	tests := []struct {
		path   string
		method string
	}{
		{"/auth/login", "post"},
		{"/admin/students", "get"},
		{"/admin/groups/{id}/subjects", "get"},
		{"/admin/subjects/{id}/info", "get"},
		{"/admin/assignments/{id}/deactivate", "put"},
		{"/teacher/grades/{id}", "put"},
		{"/teacher/subjects/{id}/top", "get"},
		{"/student/report", "get"},
		{"/health", "get"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			require.Contains(t, doc.Paths, tt.path)
			assert.Contains(t, doc.Paths[tt.path], tt.method)
		})
	}

	for _, name := range []string{"dto.SubjectInfoResponse", "models.Grade", "domain.GradeSummary"} {
		assert.Contains(t, doc.Definitions, name)
	}
}
