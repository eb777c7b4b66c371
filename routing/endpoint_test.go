// Copyright (c) 2025 Routewire Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package routing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appendingUnit(log *[]string, name string) HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		*log = append(*log, name)
		return nil
	}
}

func TestUnit(t *testing.T) {
	t.Run("will contribute a single unit", func(t *testing.T) {
		t.Run("if appended after existing units", func(t *testing.T) {
			var log []string
			before := appendingUnit(&log, "before")
			execute := appendingUnit(&log, "execute")

			units, err := Unit(execute).appendUnits([]HandlerFunc{before})
			require.Nil(t, err)
			require.Len(t, units, 2)

			for _, unit := range units {
				require.Nil(t, unit(nil, nil))
			}
			assert.Equal(t, []string{"before", "execute"}, log)
		})
	})
}

func TestSequence(t *testing.T) {
	t.Run("will preserve unit order", func(t *testing.T) {
		t.Run("if multiple units are given", func(t *testing.T) {
			var log []string

			units, err := Sequence(
				appendingUnit(&log, "one"),
				appendingUnit(&log, "two"),
				appendingUnit(&log, "three"),
			).appendUnits(nil)
			require.Nil(t, err)
			require.Len(t, units, 3)

			for _, unit := range units {
				require.Nil(t, unit(nil, nil))
			}
			assert.Equal(t, []string{"one", "two", "three"}, log)
		})
	})
}

func TestPipeline(t *testing.T) {
	t.Run("will order the stages", func(t *testing.T) {
		t.Run("if validate and sanitize are both set", func(t *testing.T) {
			var log []string

			p := Pipeline{
				Validate: ValidatorFunc(func(r *http.Request) error {
					log = append(log, "validate")
					return nil
				}),
				Sanitize: func(r *http.Request) error {
					log = append(log, "sanitize")
					return nil
				},
				Execute: appendingUnit(&log, "execute"),
			}

			units, err := p.appendUnits(nil)
			require.Nil(t, err)
			require.Len(t, units, 3)

			for _, unit := range units {
				require.Nil(t, unit(nil, nil))
			}
			assert.Equal(t, []string{"validate", "sanitize", "execute"}, log)
		})
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if execute is not set", func(t *testing.T) {
			p := Pipeline{
				Sanitize: func(r *http.Request) error { return nil },
			}

			_, err := p.appendUnits(nil)

			var mErr MissingExecuteError
			assert.ErrorAs(t, err, &mErr)
		})
	})
}

func TestChain_ServeHTTP(t *testing.T) {
	discard := ResponderFunc(func(ctx context.Context, w http.ResponseWriter, v any) {})

	t.Run("will run every unit", func(t *testing.T) {
		t.Run("if none of them fail", func(t *testing.T) {
			var log []string
			chain := NewChain(
				discard,
				appendingUnit(&log, "one"),
				appendingUnit(&log, "two"),
			)

			w := httptest.NewRecorder()
			chain.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, []string{"one", "two"}, log)
		})
	})

	t.Run("will halt the pipeline", func(t *testing.T) {
		t.Run("if a unit returns an error", func(t *testing.T) {
			var log []string
			var responded any
			chain := NewChain(
				ResponderFunc(func(ctx context.Context, w http.ResponseWriter, v any) {
					responded = v
				}),
				appendingUnit(&log, "one"),
				func(w http.ResponseWriter, r *http.Request) error {
					return errors.New("unit failed")
				},
				appendingUnit(&log, "never"),
			)

			w := httptest.NewRecorder()
			chain.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, []string{"one"}, log)
			require.NotNil(t, responded)
			err, ok := responded.(error)
			require.True(t, ok)
			assert.Equal(t, "unit failed", err.Error())
		})

		t.Run("if a unit panics", func(t *testing.T) {
			var responded any
			chain := NewChain(
				ResponderFunc(func(ctx context.Context, w http.ResponseWriter, v any) {
					responded = v
				}),
				func(w http.ResponseWriter, r *http.Request) error {
					panic("access denied")
				},
			)

			w := httptest.NewRecorder()
			chain.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, "access denied", responded)
		})
	})
}
