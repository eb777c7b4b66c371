// Copyright (c) 2025 Routewire Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package routing

import (
	"slices"
	"strings"
)

// expandResource rewrites a resource declaration into an equivalent
// specification tree and feeds it back through the builder. Actions whose
// paths start with "/:<resourceId>" nest under a member subtree, the rest
// register on the collection.
func (b *Builder) expandResource(opts any, at string) error {
	res, ok := toResource(opts)
	if !ok {
		return InvalidSpecError{Path: at, Value: opts}
	}
	if len(res.Allow) > 0 && len(res.Deny) > 0 {
		return AllowDenyError{Name: res.Controller}
	}

	ctrl, ok := b.registry.Lookup(res.Controller)
	if !ok {
		return ControllerNotFoundError{Name: res.Controller}
	}
	rc, ok := ctrl.(ResourceController)
	if !ok {
		return NotResourceControllerError{Name: res.Controller}
	}

	rid := rc.ResourceID()
	if rid == "" {
		return MissingResourceIDError{Name: res.Controller}
	}

	actions := rc.ResourceActions()
	for _, name := range res.Allow {
		if _, ok := actions[name]; !ok {
			return UnknownResourceActionError{Controller: res.Controller, Action: name}
		}
	}

	include := func(name string) bool {
		if len(res.Allow) > 0 {
			return slices.Contains(res.Allow, name)
		}
		return !slices.Contains(res.Deny, name)
	}

	prefix := "/:" + rid
	collective := Spec{}
	single := Spec{}

	for _, name := range sortedKeys(actions) {
		if !include(name) {
			continue
		}

		for _, as := range actions[name] {
			route := Route{
				Action:  res.Controller + actionSeparator + name,
				Options: mergeOptions(as.Options, res.Options),
			}
			verb := strings.ToLower(as.Verb)

			rest, member := memberPath(as.Path, prefix)
			if member {
				nest(single, rest, verb, route)
			} else {
				nest(collective, as.Path, verb, route)
			}
		}
	}

	if len(single) > 0 {
		collective[prefix] = single
	}
	return b.addSpec(collective, at)
}

func toResource(v any) (*Resource, bool) {
	switch res := v.(type) {
	case *Resource:
		return res, true
	case Resource:
		return &res, true
	default:
		return nil, false
	}
}

// memberPath reports whether path addresses a single resource instance,
// returning the remainder relative to the instance. The prefix must end at
// a segment boundary, "/:idx" is not a member path of "/:id".
func memberPath(path, prefix string) (string, bool) {
	if !strings.HasPrefix(path, prefix) {
		return path, false
	}
	rest := path[len(prefix):]
	if rest != "" && rest[0] != pathSigil {
		return path, false
	}
	return rest, true
}

// nest places a verb binding at the given relative path inside spec,
// creating intermediate path nodes as needed.
func nest(spec Spec, path, verb string, route Route) {
	if path == "" || path == "/" {
		spec[verb] = route
		return
	}

	node, ok := spec[path].(Spec)
	if !ok {
		node = Spec{}
		spec[path] = node
	}
	node[verb] = route
}

// mergeOptions overlays action-level options onto resource-level defaults,
// with the action winning on conflicts.
func mergeOptions(action, resource map[string]any) map[string]any {
	if len(resource) == 0 {
		return action
	}

	merged := make(map[string]any, len(resource)+len(action))
	for k, v := range resource {
		merged[k] = v
	}
	for k, v := range action {
		merged[k] = v
	}
	return merged
}
