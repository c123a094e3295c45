package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type swaggerDoc struct {
	Swagger  string                            `json:"swagger" yaml:"swagger"`
	BasePath string                            `json:"basePath" yaml:"basePath"`
	Info     map[string]string                 `json:"info" yaml:"info"`
	Paths    map[string]map[string]interface{} `json:"paths" yaml:"paths"`
}

func getSwagger(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestSwagger_JSON(t *testing.T) {
	// Served without a key, like /metrics
	ts, cleanup := setupTestServer(t, ServerConfig{APIKey: "secret"})
	defer cleanup()

	w := getSwagger(t, ts.handler, "/swagger/swagger.json")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var doc swaggerDoc
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "2.0", doc.Swagger)
	assert.Equal(t, "/api/v1", doc.BasePath)
	assert.Equal(t, "gamehdr API", doc.Info["title"])

	routes := map[string][]string{
		"/health":                 {"get"},
		"/headers/encode":         {"post"},
		"/headers/decode/{value}": {"get"},
		"/log":                    {"get", "post"},
		"/log/{index}":            {"get"},
		"/stats":                  {"get"},
		"/batches":                {"get", "post"},
		"/batches/{id}":           {"get", "put", "delete"},
	}
	for path, methods := range routes {
		ops, ok := doc.Paths[path]
		require.True(t, ok, "missing path %s", path)
		for _, method := range methods {
			assert.Contains(t, ops, method, "missing %s %s", method, path)
		}
	}
}

func TestSwagger_YAML(t *testing.T) {
	ts, cleanup := setupTestServer(t, ServerConfig{})
	defer cleanup()

	w := getSwagger(t, ts.handler, "/swagger/swagger.yaml")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/yaml", w.Header().Get("Content-Type"))
	assert.NotEqual(t, byte('{'), w.Body.Bytes()[0], "expected block YAML, got JSON")

	var doc swaggerDoc
	require.NoError(t, yaml.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "2.0", doc.Swagger)
	assert.Contains(t, doc.Paths, "/headers/decode/{value}")
}

func TestSwagger_UIAndUnknown(t *testing.T) {
	ts, cleanup := setupTestServer(t, ServerConfig{})
	defer cleanup()

	w := getSwagger(t, ts.handler, "/swagger/index.html")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/swagger/swagger.json")

	w = getSwagger(t, ts.handler, "/swagger/missing.txt")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
