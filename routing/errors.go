// Copyright (c) 2025 Routewire Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package routing

import (
	"fmt"
)

// InvalidSpecError reports a specification node whose shape is neither a
// mounting target nor a mapping, or a node value of an unexpected type.
type InvalidSpecError struct {
	Path  string
	Value any
}

func (e InvalidSpecError) Error() string {
	return fmt.Sprintf("invalid specification node at %q: %T", e.Path, e.Value)
}

// UnknownVerbError reports a verb key which the underlying router does
// not support.
type UnknownVerbError struct {
	Verb string
	Path string
}

func (e UnknownVerbError) Error() string {
	return fmt.Sprintf("unknown http verb %q at %q", e.Verb, e.Path)
}

// MissingActionError reports a verb node defining neither an action
// reference nor a view name.
type MissingActionError struct {
	Verb string
	Path string
}

func (e MissingActionError) Error() string {
	return fmt.Sprintf("route %s %q must define an action or a view", e.Verb, e.Path)
}

// MalformedActionRefError reports an action reference which is not of the
// form "controller" or "controller@method".
type MalformedActionRefError struct {
	Ref string
}

func (e MalformedActionRefError) Error() string {
	return fmt.Sprintf("malformed action reference %q", e.Ref)
}

// ControllerNotFoundError reports a controller name absent from the registry.
type ControllerNotFoundError struct {
	Name string
}

func (e ControllerNotFoundError) Error() string {
	return fmt.Sprintf("controller not found: %q", e.Name)
}

// ActionNotFoundError reports a method name the controller does not expose.
type ActionNotFoundError struct {
	Controller string
	Action     string
}

func (e ActionNotFoundError) Error() string {
	return fmt.Sprintf("controller %q has no action %q", e.Controller, e.Action)
}

// InvalidParamError reports a parameter name missing the parameter sigil.
type InvalidParamError struct {
	Name string
}

func (e InvalidParamError) Error() string {
	return fmt.Sprintf("parameter name %q must begin with %q", e.Name, string(paramSigil))
}

// InvalidParamHandlerError reports a parameter declaration which is neither
// a raw handler nor an action reference resolving to a single unit.
type InvalidParamHandlerError struct {
	Name  string
	Value any
}

func (e InvalidParamHandlerError) Error() string {
	return fmt.Sprintf("invalid handler for parameter %q: %T", e.Name, e.Value)
}

// NotResourceControllerError reports a resource declaration naming a
// controller which does not expose resource actions.
type NotResourceControllerError struct {
	Name string
}

func (e NotResourceControllerError) Error() string {
	return fmt.Sprintf("controller %q does not expose resource actions", e.Name)
}

// MissingResourceIDError reports a resource controller without a resource id.
type MissingResourceIDError struct {
	Name string
}

func (e MissingResourceIDError) Error() string {
	return fmt.Sprintf("resource controller %q must define a resource id", e.Name)
}

// AllowDenyError reports a resource declaration setting both allow and
// deny lists.
type AllowDenyError struct {
	Name string
}

func (e AllowDenyError) Error() string {
	return fmt.Sprintf("resource %q sets both allow and deny lists", e.Name)
}

// UnknownResourceActionError reports an allow list entry naming an action
// the controller does not define.
type UnknownResourceActionError struct {
	Controller string
	Action     string
}

func (e UnknownResourceActionError) Error() string {
	return fmt.Sprintf("resource controller %q has no action %q", e.Controller, e.Action)
}

// MissingExecuteError reports a [Pipeline] endpoint without an execute unit.
type MissingExecuteError struct{}

func (e MissingExecuteError) Error() string {
	return "pipeline endpoint must define an execute unit"
}

// NoRendererError reports a view route on a builder with no [Renderer].
type NoRendererError struct {
	View string
}

func (e NoRendererError) Error() string {
	return fmt.Sprintf("no renderer configured for view %q", e.View)
}
