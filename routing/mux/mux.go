// Copyright (c) 2025 Routewire Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package mux provides a chi backed implementation of [routing.Router].
package mux

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/routewire/routewire"
	"github.com/routewire/routewire/health"
	"github.com/routewire/routewire/routing"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/openapi-go/openapi3"
	"github.com/z5labs/sdk-go/ptr"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// MuxOptions represents configurable values for a [Mux].
type MuxOptions struct {
	readiness        health.Monitor
	liveness         health.Monitor
	responder        routing.Responder
	notFound         http.HandlerFunc
	methodNotAllowed http.HandlerFunc
}

// MuxOption sets values on [MuxOptions].
type MuxOption interface {
	ApplyMuxOption(*MuxOptions)
}

type muxOptionFunc func(*MuxOptions)

func (f muxOptionFunc) ApplyMuxOption(mo *MuxOptions) {
	f(mo)
}

// Readiness will register the given [health.Monitor] to be used
// for reporting when the application is ready to start accepting traffic.
//
// An example usage of this is to tie the [health.Monitor] to any backend client
// circuit breakers. When one of the circuit breakers moves to an OPEN state your
// application can quickly notify upstream component(s) (e.g. load balancer) that
// no requests should be sent to it since they'll just fail anyways due to the circuit
// being OPEN.
//
// See [Liveness, Readiness, and Startup Probes](https://kubernetes.io/docs/concepts/configuration/liveness-readiness-startup-probes/)
// for more details.
func Readiness(m health.Monitor) MuxOption {
	return muxOptionFunc(func(mo *MuxOptions) {
		mo.readiness = m
	})
}

// Liveness will register the given [health.Monitor] to be used
// for reporting when the entire application needs to be restarted.
//
// See [Liveness, Readiness, and Startup Probes](https://kubernetes.io/docs/concepts/configuration/liveness-readiness-startup-probes/)
// for more details.
func Liveness(m health.Monitor) MuxOption {
	return muxOptionFunc(func(mo *MuxOptions) {
		mo.liveness = m
	})
}

// OnError overrides the [routing.Responder] used to translate pipeline
// errors and panic values into HTTP responses.
func OnError(r routing.Responder) MuxOption {
	return muxOptionFunc(func(mo *MuxOptions) {
		mo.responder = r
	})
}

// NotFound overrides the handler invoked when no route matches.
func NotFound(h http.HandlerFunc) MuxOption {
	return muxOptionFunc(func(mo *MuxOptions) {
		mo.notFound = h
	})
}

// MethodNotAllowed overrides the handler invoked when a route matches
// the path but not the method.
func MethodNotAllowed(h http.HandlerFunc) MuxOption {
	return muxOptionFunc(func(mo *MuxOptions) {
		mo.methodNotAllowed = h
	})
}

// scopedUse is a middleware set restricted to a path subtree. Units apply
// to every route registered at or below the pattern.
type scopedUse struct {
	pattern string
	units   []routing.HandlerFunc
}

// always ensure [Mux] implements the [routing.Router] interface.
// if [routing.Router] is ever changed this will lead to compilation error here.
var _ routing.Router = (*Mux)(nil)

// Mux is a HTTP request multiplexer which implements the [routing.Router]
// interface over chi. Route patterns use the ":name" parameter style and
// are translated to chi's "{name}" style at registration time.
//
// Mux provides a set of standard features:
// - OpenAPI schema as JSON at "/openapi.json"
// - Liveness endpoint at "/health/liveness"
// - Readiness endpoint at "/health/readiness"
// - Standardized NotFound behaviour
// - Standardized MethodNotAllowed behaviour
type Mux struct {
	router    *chi.Mux
	spec      *openapi3.Spec
	responder routing.Responder
	log       *slog.Logger

	uses   []scopedUse
	params map[string]routing.ParamHandler
}

// New initializes a [Mux].
func New(title, version string, opts ...MuxOption) *Mux {
	var defaultHealth health.Binary
	defaultHealth.MarkHealthy()

	log := routewire.Logger("github.com/routewire/routewire/routing/mux")

	mo := &MuxOptions{
		readiness: &defaultHealth,
		liveness:  &defaultHealth,
		responder: routing.DefaultResponder(log.Handler()),
	}
	for _, opt := range opts {
		opt.ApplyMuxOption(mo)
	}

	spec := &openapi3.Spec{
		Openapi: "3.0",
		Info: openapi3.Info{
			Title:   title,
			Version: version,
		},
	}

	r := chi.NewMux()

	r.Get("/openapi.json", func(w http.ResponseWriter, req *http.Request) {
		enc := json.NewEncoder(w)
		err := enc.Encode(spec)
		if err == nil {
			return
		}
		log.ErrorContext(
			req.Context(),
			"failed to encode openapi schema to json",
			slog.String("error", err.Error()),
		)
	})

	r.Get("/health/readiness", healthHandler(mo.readiness))
	r.Get("/health/liveness", healthHandler(mo.liveness))

	if mo.notFound != nil {
		r.NotFound(mo.notFound)
	}
	if mo.methodNotAllowed != nil {
		r.MethodNotAllowed(mo.methodNotAllowed)
	}

	return &Mux{
		router:    r,
		spec:      spec,
		responder: mo.responder,
		log:       log,
		params:    make(map[string]routing.ParamHandler),
	}
}

func healthHandler(m health.Monitor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		healthy, err := m.Healthy(r.Context())
		if !healthy || err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

// knownMethods maps verb keys, as they appear in specification trees, to
// their canonical HTTP form.
var knownMethods = map[string]string{
	"get":     http.MethodGet,
	"head":    http.MethodHead,
	"post":    http.MethodPost,
	"put":     http.MethodPut,
	"patch":   http.MethodPatch,
	"delete":  http.MethodDelete,
	"connect": http.MethodConnect,
	"options": http.MethodOptions,
	"trace":   http.MethodTrace,
}

// HasMethod implements the [routing.Router] interface.
func (m *Mux) HasMethod(method string) bool {
	_, ok := knownMethods[strings.ToLower(method)]
	return ok
}

// Method implements the [routing.Router] interface. The units are compiled
// into a single traced handler, prefixed with any scoped middleware and
// parameter handlers covering the pattern.
func (m *Mux) Method(method, pattern string, units ...routing.HandlerFunc) {
	canonical, ok := knownMethods[strings.ToLower(method)]
	if !ok {
		canonical = strings.ToUpper(method)
	}

	pipeline := append(m.scopedUnits(pattern), m.paramUnits(pattern)...)
	pipeline = append(pipeline, units...)

	chiPattern := translatePattern(pattern)
	m.router.Method(canonical, chiPattern, otelhttp.WithRouteTag(
		chiPattern,
		routing.NewChain(m.responder, pipeline...),
	))

	err := m.spec.AddOperation(canonical, chiPattern, m.operation(pattern))
	if err != nil {
		m.log.Error(
			"failed to add operation to openapi schema",
			slog.String("method", canonical),
			slog.String("pattern", chiPattern),
			slog.String("error", err.Error()),
		)
	}
}

// Use implements the [routing.Router] interface. The units apply to every
// route registered at or below the pattern after this call.
func (m *Mux) Use(pattern string, units ...routing.HandlerFunc) {
	m.uses = append(m.uses, scopedUse{
		pattern: pattern,
		units:   units,
	})
}

// Param implements the [routing.Router] interface. The handler runs before
// the pipeline of any route whose pattern names the parameter.
func (m *Mux) Param(name string, h routing.ParamHandler) {
	m.params[name] = h
}

// Mount implements the [routing.Router] interface.
func (m *Mux) Mount(pattern string, h http.Handler) {
	m.router.Mount(translatePattern(pattern), h)
}

// ServeHTTP implements the [http.Handler] interface.
func (m *Mux) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.router.ServeHTTP(w, r)
}

func (m *Mux) scopedUnits(pattern string) []routing.HandlerFunc {
	var units []routing.HandlerFunc
	for _, use := range m.uses {
		if covers(use.pattern, pattern) {
			units = append(units, use.units...)
		}
	}
	return units
}

// paramUnits adapts registered parameter handlers into pipeline units for
// each parameter named by the pattern, in path order. Handlers are looked
// up at request time so a handler registered, or replaced, after the route
// still applies to it.
func (m *Mux) paramUnits(pattern string) []routing.HandlerFunc {
	var units []routing.HandlerFunc
	for _, name := range paramNames(pattern) {
		units = append(units, m.paramUnit(name))
	}
	return units
}

func (m *Mux) paramUnit(name string) routing.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		h, ok := m.params[name]
		if !ok {
			return nil
		}
		return h(w, r, chi.URLParam(r, name))
	}
}

func (m *Mux) operation(pattern string) openapi3.Operation {
	var op openapi3.Operation
	for _, name := range paramNames(pattern) {
		schemaType := openapi3.SchemaTypeString
		op.Parameters = append(op.Parameters, openapi3.ParameterOrRef{
			Parameter: &openapi3.Parameter{
				Name:     name,
				In:       openapi3.ParameterInPath,
				Required: ptr.Ref(true),
				Schema: &openapi3.SchemaOrRef{
					Schema: &openapi3.Schema{
						Type: &schemaType,
					},
				},
			},
		})
	}
	return op
}

// covers reports whether a middleware scope applies to a route pattern.
// Matching is segment aware, "/user" does not cover "/users".
func covers(scope, pattern string) bool {
	if scope == "" || scope == "/" {
		return true
	}
	scope = strings.TrimSuffix(scope, "/")
	if !strings.HasPrefix(pattern, scope) {
		return false
	}
	rest := pattern[len(scope):]
	return rest == "" || rest[0] == '/'
}

// translatePattern rewrites ":name" style parameters into chi's "{name}"
// style. An empty pattern addresses the root.
func translatePattern(pattern string) string {
	if pattern == "" {
		return "/"
	}

	segments := strings.Split(pattern, "/")
	for i, seg := range segments {
		if len(seg) > 1 && seg[0] == ':' {
			segments[i] = "{" + seg[1:] + "}"
		}
	}
	return strings.Join(segments, "/")
}

func paramNames(pattern string) []string {
	var names []string
	for _, seg := range strings.Split(pattern, "/") {
		if len(seg) > 1 && seg[0] == ':' {
			names = append(names, seg[1:])
		}
	}
	return names
}
