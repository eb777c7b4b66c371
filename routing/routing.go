// Copyright (c) 2025 Routewire Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package routing translates declarative route specifications into a fully
// wired HTTP router.
//
// A specification is a nested tree of mappings whose keys carry structural
// meaning: keys beginning with the path separator nest, keys beginning with
// the parameter sigil register path-parameter handlers, the literal "use"
// mounts middleware, the literal "resource" expands a controller into its
// CRUD-style route set, and any other key names an HTTP verb. A [Builder]
// walks the tree and registers middleware pipelines against a [Router]
// primitive, such as the chi backed implementation in the mux subpackage.
//
// Wiring is synchronous and happens once at startup: any malformed node,
// unresolvable action reference, or conflicting resource declaration is
// reported as an error from [Builder.AddSpec] and is fatal to boot. Request
// handling, by contrast, routes every failure inside a pipeline unit to the
// configured [Responder], affecting only the request being served.
package routing

import (
	"net/http"
)

// HandlerFunc is a single unit of a route's middleware pipeline. Units run
// in the order they were assembled; returning a non-nil error halts the
// pipeline for the current request and routes the error to the [Responder].
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// ParamHandler handles a bound path parameter value before the matched
// route's pipeline runs.
type ParamHandler func(http.ResponseWriter, *http.Request, string) error

// Router is the primitive the [Builder] registers routes against. Patterns
// use the parameter sigil for dynamic segments, e.g. "/users/:id".
//
// Implementations must dispatch matching routes in registration order with
// conventional most-specific path-parameter binding semantics.
type Router interface {
	http.Handler

	// HasMethod reports whether the router supports the given HTTP verb.
	// The check is case-insensitive.
	HasMethod(method string) bool

	// Method registers the ordered pipeline under (method, pattern).
	Method(method, pattern string, units ...HandlerFunc)

	// Use mounts middleware applied to every route subsequently
	// registered at or below pattern.
	Use(pattern string, units ...HandlerFunc)

	// Mount attaches an independent handler, typically a sub-router,
	// below pattern.
	Mount(pattern string, h http.Handler)

	// Param registers a handler invoked with the bound value of the
	// named path parameter, for every route whose pattern names it.
	Param(name string, h ParamHandler)
}
