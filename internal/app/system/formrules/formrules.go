// internal/app/system/formrules/formrules.go
//
// Package formrules checks admin form input against per-field rules and
// produces the messages shown beside each field. It has no side effects;
// callers decide whether a failure blocks submission.
package formrules

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Format is a named value-format check.
type Format int

const (
	FormatNone Format = iota
	FormatEmail
	FormatPhone10
	FormatPercentage
)

// Default messages.
const (
	MsgRequired   = "This field is required"
	MsgEmail      = "Invalid email format"
	MsgPhone10    = "Contact must be 10 digits"
	MsgPercentage = "Must be a number between 0 and 100"
)

// Rules are the constraints for one field. Checks run in a fixed order:
// required, min length, max length, format, pattern. The first failure wins.
type Rules struct {
	Required        bool
	RequiredMessage string // overrides MsgRequired, e.g. "Name is required"
	MinLen          int
	MaxLen          int
	Format          Format
	Pattern         *regexp.Regexp
	PatternMessage  string
}

// Ruleset maps field names to their rules.
type Ruleset map[string]Rules

// Errors maps field names to their first failing message.
type Errors map[string]string

// Any reports whether there is at least one error.
func (e Errors) Any() bool { return len(e) > 0 }

// Get returns the message for field, or "".
func (e Errors) Get(field string) string { return e[field] }

// First returns a message from the alphabetically first failing field.
func (e Errors) First() string {
	if len(e) == 0 {
		return ""
	}
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return e[keys[0]]
}

var (
	validate = validator.New()
	phone10  = regexp.MustCompile(`^[0-9]{10}$`)
)

// ValidateField checks one value and returns "" when it is valid.
// Values are trimmed first; lengths are counted in characters.
// An empty optional value skips the remaining checks.
func ValidateField(value string, r Rules) string {
	v := strings.TrimSpace(value)

	if v == "" {
		if r.Required {
			if r.RequiredMessage != "" {
				return r.RequiredMessage
			}
			return MsgRequired
		}
		return ""
	}

	n := utf8.RuneCountInString(v)
	if r.MinLen > 0 && n < r.MinLen {
		return fmt.Sprintf("Must be at least %d characters", r.MinLen)
	}
	if r.MaxLen > 0 && n > r.MaxLen {
		return fmt.Sprintf("Maximum %d characters allowed", r.MaxLen)
	}

	switch r.Format {
	case FormatEmail:
		if validate.Var(v, "required,email") != nil {
			return MsgEmail
		}
	case FormatPhone10:
		if !phone10.MatchString(v) {
			return MsgPhone10
		}
	case FormatPercentage:
		// Plain decimals only; ParseFloat alone would accept NaN, 1e1 and hex.
		if validate.Var(v, "numeric") != nil {
			return MsgPercentage
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 || f > 100 {
			return MsgPercentage
		}
	}

	if r.Pattern != nil && !r.Pattern.MatchString(v) {
		if r.PatternMessage != "" {
			return r.PatternMessage
		}
		return "Invalid format"
	}
	return ""
}

// ValidateAll checks every field in rs against values. Fields absent from
// values are treated as empty.
func ValidateAll(values map[string]string, rs Ruleset) Errors {
	errs := Errors{}
	for field, r := range rs {
		if msg := ValidateField(values[field], r); msg != "" {
			errs[field] = msg
		}
	}
	return errs
}
