package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scott-clare1/oop-viewer/internal/graph"
	"github.com/scott-clare1/oop-viewer/internal/model"
	"github.com/scott-clare1/oop-viewer/internal/pipeline"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testResult() *pipeline.Result {
	g := graph.Build([]model.Edge{
		{Child: "Dog", Parent: "Animal"},
		{Child: "Cat", Parent: "Animal"},
		{Child: "Kitten", Parent: "Cat"},
		{Child: "Kitten", Parent: "Cute"},
	})
	return &pipeline.Result{Root: "zoo", Graph: g, Ranks: graph.Rank(g)}
}

func serve(t *testing.T, router http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleGraph(t *testing.T) {
	router := NewRouter(testResult())

	w := serve(t, router, "/v1/graph")
	require.Equal(t, http.StatusOK, w.Code)

	var doc graph.SerializableGraph
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, graph.SchemaVersion, doc.SchemaVersion)
	assert.Len(t, doc.Nodes, 5)
	assert.Len(t, doc.Edges, 4)
	for _, e := range doc.Edges {
		assert.Equal(t, graph.PlaceholderWeight, e.Weight)
		assert.Equal(t, doc.Nodes[e.From].Name, e.FromName)
		assert.Equal(t, doc.Nodes[e.To].Name, e.ToName)
	}
}

func TestHandleDOT(t *testing.T) {
	router := NewRouter(testResult())

	w := serve(t, router, "/v1/graph/dot")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "digraph classes {"))
	assert.Contains(t, w.Header().Get("Content-Type"), "text/vnd.graphviz")
}

func TestHandleClass(t *testing.T) {
	router := NewRouter(testResult())

	w := serve(t, router, "/v1/classes/Kitten")
	require.Equal(t, http.StatusOK, w.Code)

	var resp ClassResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Kitten", resp.Name)
	assert.Equal(t, "Kitten", resp.Label)
	assert.Equal(t, []string{"Cat", "Cute"}, resp.Parents)
	assert.Empty(t, resp.Children)

	w = serve(t, router, "/v1/classes/Animal")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"Cat", "Dog"}, resp.Children)
	assert.Empty(t, resp.Parents)
	assert.Greater(t, resp.Rank, 0.0)
}

func TestHandleClassUnknown(t *testing.T) {
	router := NewRouter(testResult())

	w := serve(t, router, "/v1/classes/Missing")
	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "Missing")
}

func TestHandleHealth(t *testing.T) {
	router := NewRouter(testResult())

	w := serve(t, router, "/healthz")
	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 5, resp.Classes)
	assert.Equal(t, 4, resp.Edges)
}

func TestMetricsEndpoint(t *testing.T) {
	router := NewRouter(testResult())

	w := serve(t, router, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestEmptyGraph(t *testing.T) {
	router := NewRouter(&pipeline.Result{Graph: graph.Build(nil)})

	w := serve(t, router, "/v1/graph")
	require.Equal(t, http.StatusOK, w.Code)

	var doc graph.SerializableGraph
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Empty(t, doc.Nodes)
	assert.Empty(t, doc.Edges)
}
