// Copyright (c) 2025 Routewire Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package routing

import (
	"fmt"
	"log/slog"
	"net/http"
	"slices"

	"github.com/routewire/routewire"
)

// BuilderOptions holds configurable values of a [Builder].
type BuilderOptions struct {
	base     string
	renderer Renderer
	log      *slog.Logger
}

// BuilderOption sets a value on [BuilderOptions].
type BuilderOption interface {
	ApplyBuilderOption(*BuilderOptions)
}

type builderOptionFunc func(*BuilderOptions)

func (f builderOptionFunc) ApplyBuilderOption(bo *BuilderOptions) {
	f(bo)
}

// Base roots every registration below the given path.
func Base(path string) BuilderOption {
	return builderOptionFunc(func(bo *BuilderOptions) {
		bo.base = path
	})
}

// Views configures the [Renderer] backing view routes. A builder without
// a renderer rejects specs declaring views.
func Views(r Renderer) BuilderOption {
	return builderOptionFunc(func(bo *BuilderOptions) {
		bo.renderer = r
	})
}

// Builder interprets declarative route specifications against a [Router].
//
// Wiring is synchronous and single-threaded; a Builder must not be shared
// across goroutines. Once [Builder.Router] has been handed off the builder's
// internal state is never touched again.
type Builder struct {
	router   Router
	registry Registry
	base     string
	renderer Renderer
	log      *slog.Logger

	// names of parameters already registered; duplicate registration
	// is a no-op unless explicitly overridden
	params map[string]struct{}
}

// NewBuilder initializes a [Builder] registering routes against r,
// resolving action references through reg.
func NewBuilder(r Router, reg Registry, opts ...BuilderOption) *Builder {
	bo := &BuilderOptions{
		log: routewire.Logger("github.com/routewire/routewire/routing"),
	}
	for _, opt := range opts {
		opt.ApplyBuilderOption(bo)
	}

	return &Builder{
		router:   r,
		registry: reg,
		base:     bo.base,
		renderer: bo.renderer,
		log:      bo.log,
		params:   make(map[string]struct{}),
	}
}

// AddSpec merges a specification node into the router, rooted at the
// builder's base path. The node must be a [Spec] (or map[string]any) or a
// mounting target; anything else is a wiring error. All errors returned
// here are fatal to application startup.
func (b *Builder) AddSpec(node any) error {
	return b.addSpec(node, b.base)
}

// Router returns the populated router primitive.
func (b *Builder) Router() Router {
	return b.router
}

func (b *Builder) addSpec(node any, at string) error {
	spec, ok := toSpec(node)
	if ok {
		return b.addSpecNode(spec, at)
	}
	return b.mount(node, at)
}

func toSpec(node any) (Spec, bool) {
	switch v := node.(type) {
	case Spec:
		return v, true
	case map[string]any:
		return Spec(v), true
	default:
		return nil, false
	}
}

// mount attaches a mounting target, a middleware function, a middleware
// sequence or a sub-router, at the given path.
func (b *Builder) mount(node any, at string) error {
	switch v := node.(type) {
	case HandlerFunc:
		b.router.Use(at, v)
	case func(http.ResponseWriter, *http.Request) error:
		b.router.Use(at, HandlerFunc(v))
	case []HandlerFunc:
		b.router.Use(at, v...)
	case http.Handler:
		b.router.Mount(at, v)
	default:
		return InvalidSpecError{Path: at, Value: node}
	}
	return nil
}

// addSpecNode dispatches a mapping node's keys by their parsed kind. The
// node's middleware mounts first so every later registration, head
// included, falls under it. head is always processed before any verb:
// router conventions would otherwise answer HEAD requests with the GET
// handler. Go maps are unordered, so the remaining keys run in a
// deterministic class order, parameters then verbs then nested paths,
// each class sorted.
func (b *Builder) addSpecNode(node Spec, at string) error {
	if use, ok := node[useKey]; ok {
		err := b.mount(use, at)
		if err != nil {
			return err
		}
	}

	if head, ok := node[headKey]; ok {
		err := b.processVerb(headKey, head, at)
		if err != nil {
			return err
		}
	}

	var params, verbs, paths []string
	for key := range node {
		switch parseKey(key) {
		case kindHead, kindUse:
			// pre-processed above
		case kindParam:
			params = append(params, key)
		case kindPath:
			paths = append(paths, key)
		default:
			verbs = append(verbs, key)
		}
	}
	slices.Sort(params)
	slices.Sort(verbs)
	slices.Sort(paths)

	for _, key := range params {
		err := b.AddParam(key, node[key], false)
		if err != nil {
			return err
		}
	}
	for _, key := range verbs {
		err := b.processVerb(key, node[key], at)
		if err != nil {
			return err
		}
	}
	for _, key := range paths {
		err := b.addSpec(node[key], joinPath(at, key))
		if err != nil {
			return err
		}
	}
	return nil
}

// processVerb assembles and registers the middleware pipeline for a single
// verb binding: before-hooks, the resolved endpoint units (or a render
// unit), after-hooks. An empty pipeline registers nothing.
func (b *Builder) processVerb(verb string, opts any, at string) error {
	if parseKey(verb) == kindResource {
		return b.expandResource(opts, at)
	}
	if !b.router.HasMethod(verb) {
		return UnknownVerbError{Verb: verb, Path: at}
	}

	route, ok := toRoute(opts)
	if !ok {
		return InvalidSpecError{Path: at, Value: opts}
	}
	if route.Action == "" && route.View == "" {
		return MissingActionError{Verb: verb, Path: at}
	}

	units := slices.Clone(route.Before)

	if route.Action != "" {
		resolved, err := b.actionUnits(route, units, at)
		if err != nil {
			return fmt.Errorf("route %s %q: %w", verb, at, err)
		}
		units = resolved
	} else {
		if b.renderer == nil {
			return NoRendererError{View: route.View}
		}
		units = append(units, renderUnit(b.renderer, route.View))
	}

	units = append(units, route.After...)
	if len(units) == 0 {
		b.log.Debug(
			"skipping route with empty pipeline",
			slog.String("verb", verb),
			slog.String("path", at),
		)
		return nil
	}

	b.router.Method(verb, at, units...)
	return nil
}

func (b *Builder) actionUnits(route *Route, units []HandlerFunc, at string) ([]HandlerFunc, error) {
	action, err := b.registry.Resolve(route.Action)
	if err != nil {
		return nil, err
	}

	endpoint, err := action(Binding{
		Path:    at,
		Options: route.Options,
	})
	if err != nil {
		return nil, err
	}
	if endpoint == nil {
		return units, nil
	}
	return endpoint.appendUnits(units)
}

func toRoute(v any) (*Route, bool) {
	switch rt := v.(type) {
	case *Route:
		return rt, true
	case Route:
		return &rt, true
	default:
		return nil, false
	}
}

// AddParam registers a path-parameter handler. The name must carry the
// parameter sigil, e.g. ":userId". Registering a name twice is a no-op
// unless override is true, in which case the handler is replaced.
func (b *Builder) AddParam(name string, opts any, override bool) error {
	if len(name) < 2 || name[0] != paramSigil {
		return InvalidParamError{Name: name}
	}

	param := name[1:]
	if _, ok := b.params[param]; ok && !override {
		return nil
	}

	h, err := b.paramHandler(name, opts)
	if err != nil {
		return err
	}

	b.params[param] = struct{}{}
	b.router.Param(param, h)
	return nil
}

func (b *Builder) paramHandler(name string, opts any) (ParamHandler, error) {
	switch v := opts.(type) {
	case ParamHandler:
		return v, nil
	case func(http.ResponseWriter, *http.Request, string) error:
		return v, nil
	case Param:
		return b.resolveParamAction(name, v.Action)
	case *Param:
		return b.resolveParamAction(name, v.Action)
	default:
		return nil, InvalidParamHandlerError{Name: name, Value: opts}
	}
}

// resolveParamAction binds a parameter handler declared by action
// reference. The resolved endpoint must contribute exactly one unit.
func (b *Builder) resolveParamAction(name, ref string) (ParamHandler, error) {
	action, err := b.registry.Resolve(ref)
	if err != nil {
		return nil, fmt.Errorf("parameter %q: %w", name, err)
	}

	endpoint, err := action(Binding{Path: name})
	if err != nil {
		return nil, fmt.Errorf("parameter %q: %w", name, err)
	}

	unit, ok := endpoint.(unitEndpoint)
	if !ok {
		return nil, InvalidParamHandlerError{Name: name, Value: endpoint}
	}

	return func(w http.ResponseWriter, r *http.Request, _ string) error {
		return HandlerFunc(unit)(w, r)
	}, nil
}

// AddRouters recursively mounts a mapping of named sub-routers and
// middleware sequences. Keys carrying the path sigil extend the mount
// path; any other key is an organizational label. Leaf handlers mount at
// the accumulated path.
func (b *Builder) AddRouters(routers map[string]any) error {
	return b.addRouters(routers, b.base)
}

func (b *Builder) addRouters(routers map[string]any, at string) error {
	for _, name := range sortedKeys(routers) {
		mountAt := at
		if len(name) > 0 && name[0] == pathSigil {
			mountAt = joinPath(at, name)
		}

		if nested, ok := routers[name].(map[string]any); ok {
			err := b.addRouters(nested, mountAt)
			if err != nil {
				return err
			}
			continue
		}

		err := b.mount(routers[name], mountAt)
		if err != nil {
			return err
		}
	}
	return nil
}
