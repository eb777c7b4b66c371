// Copyright (c) 2025 Routewire Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package routing

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// Error is a typed domain error carrying an HTTP status. A zero Status
// responds as 500 Internal Server Error.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Text is a plain-text failure. It responds as 400 Bad Request with a
// text/plain body holding exactly the text.
type Text string

// Error implements the error interface.
func (t Text) Error() string {
	return string(t)
}

// Responder maps a failure raised inside a pipeline unit onto an HTTP
// response. The value is an error returned by a unit or an arbitrary
// value recovered from a panic.
//
// The default mapping is part of the client-visible contract:
//
//   - plain text ([Text] or a raw string) responds 400 with a
//     text/plain body holding the text
//   - [*Error] responds with its status (500 when unset) and JSON body
//     {"errors": {"code": ..., "message": ..., "details": ...}}
//   - any other error responds 500 with {"errors": {"message": ...}}
//   - any other value responds 500 with {"errors": {"details": ...}}
type Responder interface {
	Respond(context.Context, http.ResponseWriter, any)
}

// ResponderFunc is an adapter to allow ordinary functions to be used
// as [Responder]s.
type ResponderFunc func(context.Context, http.ResponseWriter, any)

// Respond implements the [Responder] interface.
func (f ResponderFunc) Respond(ctx context.Context, w http.ResponseWriter, v any) {
	f(ctx, w, v)
}

// DefaultResponder returns the standard [Responder] backed by the given
// log handler. Every failure is logged before the response is written.
func DefaultResponder(h slog.Handler) ResponderFunc {
	log := slog.New(h)

	return func(ctx context.Context, w http.ResponseWriter, v any) {
		log.ErrorContext(ctx, "sending error response", slog.Any("error", v))

		switch e := v.(type) {
		case string:
			respondText(w, e)
		case Text:
			respondText(w, string(e))
		case error:
			respondError(ctx, log, w, e)
		default:
			respondJSON(ctx, log, w, http.StatusInternalServerError, errorBody{
				Errors: detailItem{Details: v},
			})
		}
	}
}

type errorBody struct {
	Errors any `json:"errors"`
}

type messageItem struct {
	Message string `json:"message"`
}

type detailItem struct {
	Details any `json:"details"`
}

func respondError(ctx context.Context, log *slog.Logger, w http.ResponseWriter, err error) {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		status := domainErr.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}

		respondJSON(ctx, log, w, status, errorBody{Errors: domainErr})
		return
	}

	var text Text
	if errors.As(err, &text) {
		respondText(w, string(text))
		return
	}

	respondJSON(ctx, log, w, http.StatusInternalServerError, errorBody{
		Errors: messageItem{Message: err.Error()},
	})
}

func respondText(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusBadRequest)
	_, _ = io.Copy(w, strings.NewReader(text))
}

func respondJSON(ctx context.Context, log *slog.Logger, w http.ResponseWriter, status int, body errorBody) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	err := enc.Encode(body)
	if err == nil {
		return
	}
	log.ErrorContext(ctx, "failed to encode error response", slog.Any("error", err))
}
