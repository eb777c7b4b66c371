// Copyright (c) 2025 Routewire Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package routing

import (
	"strings"
)

// SingleAction is the method name an action reference resolves to when it
// names only a controller, e.g. "ping" is equivalent to "ping@handle".
const SingleAction = "handle"

const actionSeparator = "@"

// Binding carries the wiring-time information an [Action] is invoked with.
// Actions run once while the router is built, never per request.
type Binding struct {
	// Path the route is being registered at.
	Path string

	// Options forwarded from the [Route] or [Resource] declaration.
	Options map[string]any
}

// Action binds a controller method into pipeline form. A nil [Endpoint]
// with a nil error means the action contributes no units; the route is
// silently skipped unless hooks are present.
type Action func(Binding) (Endpoint, error)

// Controller exposes named actions to the [Builder]. Method values in Go
// preserve their receiver, so an action returned here stays bound to its
// controller instance regardless of call site.
type Controller interface {
	Action(name string) (Action, bool)
}

// ActionMap is a map backed [Controller].
type ActionMap map[string]Action

// Action implements the [Controller] interface.
func (m ActionMap) Action(name string) (Action, bool) {
	a, ok := m[name]
	return a, ok
}

// ActionSpec is one route produced by a resource action. A resource action
// may define several ActionSpecs, each independently expanded.
type ActionSpec struct {
	// Verb is the HTTP verb the route binds.
	Verb string

	// Path is optional. A path beginning with the single-resource
	// prefix ("/:<resourceId>") targets a specific resource instance;
	// any other path targets the collection at that literal sub-path;
	// an empty path targets the collection root.
	Path string

	// Options forwarded to the bound action, overriding any options on
	// the [Resource] declaration.
	Options map[string]any
}

// ResourceController is a [Controller] which can be expanded by a
// [Resource] declaration.
type ResourceController interface {
	Controller

	// ResourceID names the path parameter identifying a single
	// resource instance.
	ResourceID() string

	// ResourceActions maps action names to their route definitions.
	ResourceActions() map[string][]ActionSpec
}

// Registry is a read-only nested mapping from dotted controller name to
// [Controller]. Values are either [Controller]s or nested registries
// ([Registry] or map[string]any).
type Registry map[string]any

// Lookup resolves a dotted controller name, descending nested registries.
func (r Registry) Lookup(name string) (Controller, bool) {
	var cur any = r
	for _, part := range strings.Split(name, ".") {
		m, ok := asRegistry(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}

	c, ok := cur.(Controller)
	return c, ok
}

func asRegistry(v any) (Registry, bool) {
	switch m := v.(type) {
	case Registry:
		return m, true
	case map[string]any:
		return Registry(m), true
	default:
		return nil, false
	}
}

// Resolve looks up the bound action for a "controller@method" reference.
// A reference without a method resolves to [SingleAction]. Resolution
// failures are typed: [MalformedActionRefError], [ControllerNotFoundError]
// or [ActionNotFoundError].
func (r Registry) Resolve(ref string) (Action, error) {
	name, method, err := splitActionRef(ref)
	if err != nil {
		return nil, err
	}

	ctrl, ok := r.Lookup(name)
	if !ok {
		return nil, ControllerNotFoundError{Name: name}
	}

	action, ok := ctrl.Action(method)
	if !ok {
		return nil, ActionNotFoundError{Controller: name, Action: method}
	}
	return action, nil
}

func splitActionRef(ref string) (string, string, error) {
	parts := strings.Split(ref, actionSeparator)
	switch len(parts) {
	case 1:
		if parts[0] == "" {
			return "", "", MalformedActionRefError{Ref: ref}
		}
		return parts[0], SingleAction, nil
	case 2:
		if parts[0] == "" || parts[1] == "" {
			return "", "", MalformedActionRefError{Ref: ref}
		}
		return parts[0], parts[1], nil
	default:
		return "", "", MalformedActionRefError{Ref: ref}
	}
}
