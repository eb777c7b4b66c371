// Copyright (c) 2025 Routewire Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package routing

import (
	"strings"
)

// Spec is one level of a declarative route tree. Keys are interpreted by
// their shape:
//
//   - "use" mounts the associated middleware at the current path
//   - "head" binds the HEAD verb and is always processed before any
//     other verb key in its node
//   - "resource" expands a [Resource] declaration
//   - a leading path separator nests a child node under the joined path
//   - a leading parameter sigil registers a path-parameter handler
//   - anything else names an HTTP verb bound to a [Route]
//
// Values are nested [Spec] (or map[string]any) nodes, [Route] or [Resource]
// declarations, [ParamHandler] or [Param] values, or mounting targets
// ([HandlerFunc], []HandlerFunc, [http.Handler]).
type Spec map[string]any

// Route configures a single verb binding. Exactly one of Action or View
// must be set; a Route defining neither is a wiring error.
type Route struct {
	// Action references the controller method which produces the
	// route's [Endpoint], e.g. "users@list".
	Action string

	// View names a template rendered by the builder's [Renderer]
	// instead of resolving an action.
	View string

	// Before and After extend the pipeline around the resolved units.
	Before []HandlerFunc
	After  []HandlerFunc

	// Options are forwarded to the bound action at wiring time.
	Options map[string]any
}

// Resource declares the CRUD-style expansion of a resource controller.
// Allow and Deny restrict the exposed actions and are mutually exclusive.
type Resource struct {
	Controller string
	Allow      []string
	Deny       []string
	Options    map[string]any
}

// Param declares a path-parameter handler by action reference, as an
// alternative to providing a raw [ParamHandler].
type Param struct {
	Action string
}

const (
	useKey      = "use"
	headKey     = "head"
	resourceKey = "resource"

	pathSigil  = '/'
	paramSigil = ':'
)

// keyKind is the parsed structural meaning of a [Spec] key. Parsing the
// sigil rule up front keeps it out of the recursive builder logic.
type keyKind int

const (
	kindVerb keyKind = iota
	kindUse
	kindHead
	kindResource
	kindPath
	kindParam
)

func parseKey(k string) keyKind {
	switch {
	case k == useKey:
		return kindUse
	case k == headKey:
		return kindHead
	case k == resourceKey:
		return kindResource
	case len(k) > 0 && k[0] == pathSigil:
		return kindPath
	case len(k) > 0 && k[0] == paramSigil:
		return kindParam
	default:
		return kindVerb
	}
}

// joinPath joins a nested spec key onto the current path without
// doubling separators.
func joinPath(base, seg string) string {
	if !strings.HasPrefix(seg, "/") {
		seg = "/" + seg
	}
	base = strings.TrimSuffix(base, "/")
	return base + seg
}
