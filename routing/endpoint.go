// Copyright (c) 2025 Routewire Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package routing

import (
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Endpoint is the result of invoking a bound action: the units an action
// contributes to its route's pipeline. The three forms are [Unit] (a single
// middleware), [Sequence] (an ordered middleware list) and [Pipeline]
// (validate, sanitize and execute stages).
type Endpoint interface {
	appendUnits(units []HandlerFunc) ([]HandlerFunc, error)
}

type unitEndpoint HandlerFunc

// Unit returns an [Endpoint] contributing a single middleware unit.
func Unit(h HandlerFunc) Endpoint {
	return unitEndpoint(h)
}

func (u unitEndpoint) appendUnits(units []HandlerFunc) ([]HandlerFunc, error) {
	return append(units, HandlerFunc(u)), nil
}

type sequenceEndpoint []HandlerFunc

// Sequence returns an [Endpoint] contributing an ordered list of
// middleware units.
func Sequence(units ...HandlerFunc) Endpoint {
	return sequenceEndpoint(units)
}

func (s sequenceEndpoint) appendUnits(units []HandlerFunc) ([]HandlerFunc, error) {
	return append(units, s...), nil
}

// Pipeline is the staged [Endpoint] form. Execute is mandatory; Validate
// and Sanitize are optional and always run in that order before it.
type Pipeline struct {
	Validate Validator
	Sanitize Sanitizer
	Execute  HandlerFunc
}

func (p Pipeline) appendUnits(units []HandlerFunc) ([]HandlerFunc, error) {
	if p.Execute == nil {
		return nil, MissingExecuteError{}
	}

	if p.Validate != nil {
		units = append(units, validateUnit(p.Validate))
	}
	if p.Sanitize != nil {
		units = append(units, sanitizeUnit(p.Sanitize))
	}
	return append(units, p.Execute), nil
}

func validateUnit(v Validator) HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		return v.Validate(r)
	}
}

func sanitizeUnit(s Sanitizer) HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		return s(r)
	}
}

// Chain compiles an ordered middleware pipeline into a [http.Handler].
// Units run strictly in order; a unit returning an error, or panicking,
// halts the pipeline for that request and hands the failure to the
// [Responder]. Recovered panic values and returned errors are
// indistinguishable to the client.
type Chain struct {
	tracer    trace.Tracer
	responder Responder
	units     []HandlerFunc
}

// NewChain initializes a [Chain].
func NewChain(responder Responder, units ...HandlerFunc) *Chain {
	return &Chain{
		tracer:    otel.Tracer("github.com/routewire/routewire/routing"),
		responder: responder,
		units:     units,
	}
}

// ServeHTTP implements the [http.Handler] interface.
func (c *Chain) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	spanCtx, span := c.tracer.Start(r.Context(), "Chain.ServeHTTP")
	defer span.End()

	defer func() {
		v := recover()
		if v == nil {
			return
		}

		c.responder.Respond(spanCtx, w, v)
	}()

	r = r.WithContext(spanCtx)
	for _, unit := range c.units {
		err := unit(w, r)
		if err == nil {
			continue
		}

		c.responder.Respond(spanCtx, w, err)
		return
	}
}
