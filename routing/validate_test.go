// Copyright (c) 2025 Routewire Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package routing

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRules(t *testing.T) {
	t.Run("Required", func(t *testing.T) {
		t.Run("will fail", func(t *testing.T) {
			t.Run("if the field is absent", func(t *testing.T) {
				assert.NotNil(t, Required()("", false))
			})

			t.Run("if the field is empty", func(t *testing.T) {
				assert.NotNil(t, Required()("", true))
			})
		})

		t.Run("will pass", func(t *testing.T) {
			t.Run("if a value is supplied", func(t *testing.T) {
				assert.Nil(t, Required()("alice", true))
			})
		})
	})

	t.Run("Regex", func(t *testing.T) {
		rule := Regex(regexp.MustCompile(`^\d+$`))

		t.Run("will pass", func(t *testing.T) {
			t.Run("if the field is absent", func(t *testing.T) {
				assert.Nil(t, rule("", false))
			})

			t.Run("if the value matches", func(t *testing.T) {
				assert.Nil(t, rule("123", true))
			})
		})

		t.Run("will fail", func(t *testing.T) {
			t.Run("if the value does not match", func(t *testing.T) {
				assert.NotNil(t, rule("abc", true))
			})
		})
	})

	t.Run("OneOf", func(t *testing.T) {
		rule := OneOf("asc", "desc")

		t.Run("will pass", func(t *testing.T) {
			t.Run("if the value is in the set", func(t *testing.T) {
				assert.Nil(t, rule("asc", true))
			})
		})

		t.Run("will fail", func(t *testing.T) {
			t.Run("if the value is outside the set", func(t *testing.T) {
				assert.NotNil(t, rule("upward", true))
			})
		})
	})
}

func TestSchema_Validate(t *testing.T) {
	t.Run("will pass", func(t *testing.T) {
		t.Run("if every rule is satisfied", func(t *testing.T) {
			s := Schema{
				"name": {Required()},
				"sort": {OneOf("asc", "desc")},
			}

			r := httptest.NewRequest(http.MethodGet, "/?name=alice&sort=asc", nil)

			assert.Nil(t, s.Validate(r))
		})
	})

	t.Run("will fail with field details", func(t *testing.T) {
		t.Run("if multiple fields are invalid", func(t *testing.T) {
			s := Schema{
				"name": {Required()},
				"page": {Regex(regexp.MustCompile(`^\d+$`))},
			}

			r := httptest.NewRequest(http.MethodGet, "/?page=abc", nil)

			err := s.Validate(r)
			require.NotNil(t, err)

			var vErr *Error
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, http.StatusBadRequest, vErr.Status)
			assert.Equal(t, ValidationFailedCode, vErr.Code)

			fields, ok := vErr.Details.(map[string]string)
			require.True(t, ok)
			assert.Len(t, fields, 2)
			assert.Contains(t, fields, "name")
			assert.Contains(t, fields, "page")
		})

		t.Run("if the field only fails its second rule", func(t *testing.T) {
			s := Schema{
				"sort": {Required(), OneOf("asc", "desc")},
			}

			r := httptest.NewRequest(http.MethodGet, "/?sort=upward", nil)

			err := s.Validate(r)

			var vErr *Error
			require.ErrorAs(t, err, &vErr)

			fields, ok := vErr.Details.(map[string]string)
			require.True(t, ok)
			assert.Contains(t, fields["sort"], "must be one of")
		})
	})

	t.Run("will read form bodies", func(t *testing.T) {
		t.Run("if the request is url encoded", func(t *testing.T) {
			s := Schema{
				"name": {Required()},
			}

			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("name=alice"))
			r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

			assert.Nil(t, s.Validate(r))
		})
	})
}
