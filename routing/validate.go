// Copyright (c) 2025 Routewire Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package routing

import (
	"fmt"
	"net/http"
	"regexp"
	"slices"
	"sort"
)

// Validator checks an incoming request before the sanitize and execute
// stages of a [Pipeline] run. Custom validators forward their error
// unchanged; the declarative [Schema] form produces a structured
// [*Error] describing every failing field.
type Validator interface {
	Validate(*http.Request) error
}

// ValidatorFunc is an adapter to allow ordinary functions to be used
// as [Validator]s.
type ValidatorFunc func(*http.Request) error

// Validate implements the [Validator] interface.
func (f ValidatorFunc) Validate(r *http.Request) error {
	return f(r)
}

// Sanitizer rewrites an incoming request, typically normalizing form or
// query values, before the execute stage runs.
type Sanitizer func(*http.Request) error

// Rule checks a single request value. The value is the first form or
// query value bound to the field; present reports whether the field was
// supplied at all.
type Rule func(value string, present bool) error

// Required fails when the field is absent or empty.
func Required() Rule {
	return func(value string, present bool) error {
		if !present || value == "" {
			return fmt.Errorf("is required")
		}
		return nil
	}
}

// Regex fails when a supplied value does not match re. Absent fields
// pass; combine with [Required] to also enforce presence.
func Regex(re *regexp.Regexp) Rule {
	return func(value string, present bool) error {
		if !present {
			return nil
		}
		if !re.MatchString(value) {
			return fmt.Errorf("must match %s", re)
		}
		return nil
	}
}

// OneOf fails when a supplied value is not one of the given values.
func OneOf(values ...string) Rule {
	return func(value string, present bool) error {
		if !present {
			return nil
		}
		if !slices.Contains(values, value) {
			return fmt.Errorf("must be one of %v", values)
		}
		return nil
	}
}

// ValidationFailedCode is the error code carried by schema validation
// failures.
const ValidationFailedCode = "validation_failed"

// Schema is the declarative [Validator] form: a mapping from field name
// to the rules its value must satisfy. Values are read from the request's
// combined form and query data.
type Schema map[string][]Rule

// Validate implements the [Validator] interface. All fields are checked;
// a failure reports every offending field in the error details.
func (s Schema) Validate(r *http.Request) error {
	// ParseForm only fails on unreadable bodies. Rules still run
	// against the query data in that case.
	_ = r.ParseForm()

	fields := make(map[string]string)
	for _, name := range sortedKeys(s) {
		values, present := r.Form[name]

		var value string
		if len(values) > 0 {
			value = values[0]
		}

		for _, rule := range s[name] {
			err := rule(value, present)
			if err == nil {
				continue
			}

			fields[name] = err.Error()
			break
		}
	}

	if len(fields) == 0 {
		return nil
	}
	return &Error{
		Status:  http.StatusBadRequest,
		Code:    ValidationFailedCode,
		Message: "request validation failed",
		Details: fields,
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
