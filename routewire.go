// Copyright (c) 2025 Routewire Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package routewire provides the base config and logging for routewire based applications.
package routewire

import (
	"log/slog"

	"go.opentelemetry.io/contrib/bridges/otelslog"
)

// Logger returns a [slog.Logger] which is backed by the globally
// registered OTel logger provider.
func Logger(name string) *slog.Logger {
	return otelslog.NewLogger(name)
}

// LogHandler returns a [slog.Handler] which is backed by the globally
// registered OTel logger provider.
func LogHandler(name string) slog.Handler {
	return otelslog.NewHandler(name)
}
