// Package server hands a finished class graph to external viewers over HTTP.
package server

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/scott-clare1/oop-viewer/internal/dot"
	"github.com/scott-clare1/oop-viewer/internal/graph"
	"github.com/scott-clare1/oop-viewer/internal/pipeline"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is returned by /healthz.
type HealthResponse struct {
	Status  string `json:"status"`
	Classes int    `json:"classes"`
	Edges   int    `json:"edges"`
}

// ClassResponse describes one class and its direct neighbours.
type ClassResponse struct {
	ID       graph.NodeID `json:"id"`
	Name     string       `json:"name"`
	Label    string       `json:"label"`
	Rank     float64      `json:"rank"`
	Parents  []string     `json:"parents"`
	Children []string     `json:"children"`
}

// Handlers serves a single frozen pipeline result.
type Handlers struct {
	res *pipeline.Result
	doc *graph.SerializableGraph
	dot string
}

// NewHandlers precomputes the JSON and DOT renderings of res. res must not
// be modified afterwards.
func NewHandlers(res *pipeline.Result) *Handlers {
	return &Handlers{
		res: res,
		doc: res.Graph.ToSerializable(res.Anchor, res.Ranks),
		dot: dot.Encode(res.Graph),
	}
}

// RegisterRoutes registers the graph endpoints on rg.
//
//	GET /v1/graph         - nodes and edges as JSON
//	GET /v1/graph/dot     - Graphviz DOT text
//	GET /v1/classes/:name - one class with its parents and children
func RegisterRoutes(rg *gin.RouterGroup, h *Handlers) {
	rg.GET("/graph", h.HandleGraph)
	rg.GET("/graph/dot", h.HandleDOT)
	rg.GET("/classes/:name", h.HandleClass)
}

// NewRouter returns an engine with the /v1 routes plus /healthz and /metrics.
func NewRouter(res *pipeline.Result) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	h := NewHandlers(res)
	RegisterRoutes(router.Group("/v1"), h)
	router.GET("/healthz", h.HandleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return router
}

// HandleGraph handles GET /v1/graph.
func (h *Handlers) HandleGraph(c *gin.Context) {
	c.JSON(http.StatusOK, h.doc)
}

// HandleDOT handles GET /v1/graph/dot.
func (h *Handlers) HandleDOT(c *gin.Context) {
	c.Data(http.StatusOK, "text/vnd.graphviz; charset=utf-8", []byte(h.dot))
}

// HandleClass handles GET /v1/classes/:name.
func (h *Handlers) HandleClass(c *gin.Context) {
	name := c.Param("name")
	g := h.res.Graph

	id, ok := g.Lookup(name)
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "unknown class: " + name})
		return
	}

	node, _ := g.Node(id)
	resp := ClassResponse{
		ID:       id,
		Name:     node.Name,
		Label:    node.Label,
		Parents:  names(g, g.Parents(id)),
		Children: names(g, g.Children(id)),
	}
	if int(id) < len(h.res.Ranks) {
		resp.Rank = h.res.Ranks[id]
	}
	c.JSON(http.StatusOK, resp)
}

// HandleHealth handles GET /healthz.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Classes: h.res.Graph.NodeCount(),
		Edges:   h.res.Graph.EdgeCount(),
	})
}

func names(g *graph.Graph, ids []graph.NodeID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, g.Name(id))
	}
	sort.Strings(out)
	return out
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(log.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start),
		}).Debug("request")
	}
}
