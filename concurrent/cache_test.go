// Copyright (c) 2025 Routewire Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package concurrent

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCache_GetOr(t *testing.T) {
	t.Run("will compute the value", func(t *testing.T) {
		t.Run("if the key is absent", func(t *testing.T) {
			c := NewCache[string, int]()

			v, err := c.GetOr("a", func() (int, error) { return 1, nil })
			if !assert.Nil(t, err) {
				return
			}
			assert.Equal(t, 1, v)

			got, ok := c.Get("a")
			assert.True(t, ok)
			assert.Equal(t, 1, got)
		})
	})

	t.Run("will return the cached value", func(t *testing.T) {
		t.Run("if the key was already computed", func(t *testing.T) {
			c := NewCache[string, int]()

			var computed int
			f := func() (int, error) {
				computed += 1
				return computed, nil
			}

			v, err := c.GetOr("a", f)
			if !assert.Nil(t, err) {
				return
			}
			assert.Equal(t, 1, v)

			v, err = c.GetOr("a", f)
			if !assert.Nil(t, err) {
				return
			}
			assert.Equal(t, 1, v)
			assert.Equal(t, 1, computed)
		})
	})

	t.Run("will not cache", func(t *testing.T) {
		t.Run("if the computation fails", func(t *testing.T) {
			c := NewCache[string, int]()

			computeErr := errors.New("failed to compute value")
			_, err := c.GetOr("a", func() (int, error) { return 0, computeErr })
			if !assert.ErrorIs(t, err, computeErr) {
				return
			}

			_, ok := c.Get("a")
			assert.False(t, ok)
		})
	})
}
