package server

import (
	"net/http"
	"strings"
)

// RouteDoc describes one registered endpoint for GET /api/routes.
type RouteDoc struct {
	Method      string `json:"method"`
	Pattern     string `json:"pattern"`
	Summary     string `json:"summary,omitempty"`
	ExampleBody string `json:"exampleBody,omitempty"`
}

// router registers handlers on a ServeMux and keeps their docs in
// registration order.
type router struct {
	mux  *http.ServeMux
	docs []RouteDoc
}

func newRouter() *router {
	return &router{mux: http.NewServeMux()}
}

func (rt *router) handle(methodAndPattern, summary, exampleBody string, h http.HandlerFunc) {
	method, pattern, ok := strings.Cut(methodAndPattern, " ")
	if !ok {
		method, pattern = "", methodAndPattern
	}
	rt.docs = append(rt.docs, RouteDoc{Method: method, Pattern: pattern, Summary: summary, ExampleBody: exampleBody})
	rt.mux.HandleFunc(methodAndPattern, h)
}

func (rt *router) routes() []RouteDoc {
	out := make([]RouteDoc, len(rt.docs))
	copy(out, rt.docs)
	return out
}
