// Copyright (c) 2025 Routewire Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseKey(t *testing.T) {
	t.Run("will classify reserved keys", func(t *testing.T) {
		t.Run("if the key is use", func(t *testing.T) {
			assert.Equal(t, kindUse, parseKey("use"))
		})

		t.Run("if the key is head", func(t *testing.T) {
			assert.Equal(t, kindHead, parseKey("head"))
		})

		t.Run("if the key is resource", func(t *testing.T) {
			assert.Equal(t, kindResource, parseKey("resource"))
		})
	})

	t.Run("will classify by sigil", func(t *testing.T) {
		t.Run("if the key begins with a slash", func(t *testing.T) {
			assert.Equal(t, kindPath, parseKey("/users"))
		})

		t.Run("if the key begins with a colon", func(t *testing.T) {
			assert.Equal(t, kindParam, parseKey(":userId"))
		})
	})

	t.Run("will classify as a verb", func(t *testing.T) {
		t.Run("if the key carries no sigil and is not reserved", func(t *testing.T) {
			assert.Equal(t, kindVerb, parseKey("get"))
			assert.Equal(t, kindVerb, parseKey("delete"))
			assert.Equal(t, kindVerb, parseKey("useful"))
		})
	})
}

func TestJoinPath(t *testing.T) {
	t.Run("will produce a single separator", func(t *testing.T) {
		t.Run("if the base ends with a slash", func(t *testing.T) {
			assert.Equal(t, "/api/users", joinPath("/api/", "/users"))
		})

		t.Run("if the segment has no leading slash", func(t *testing.T) {
			assert.Equal(t, "/api/users", joinPath("/api", "users"))
		})

		t.Run("if the base is empty", func(t *testing.T) {
			assert.Equal(t, "/users", joinPath("", "/users"))
		})

		t.Run("if the base is the root", func(t *testing.T) {
			assert.Equal(t, "/users", joinPath("/", "/users"))
		})
	})
}
