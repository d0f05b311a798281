package formrules_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/dalemusser/institutehub/internal/app/system/formrules"
)

func TestValidateField(t *testing.T) {
	tests := []struct {
		name  string
		value string
		rules formrules.Rules
		want  string
	}{
		{"required empty", "", formrules.Rules{Required: true}, "This field is required"},
		{"required whitespace", "   ", formrules.Rules{Required: true}, "This field is required"},
		{"custom required", "", formrules.Rules{Required: true, RequiredMessage: "Name is required"}, "Name is required"},
		{"optional empty skips rest", "", formrules.Rules{MinLen: 10, Format: formrules.FormatEmail}, ""},
		{"min length", "short", formrules.Rules{Required: true, MinLen: 10, MaxLen: 500}, "Must be at least 10 characters"},
		{"exactly min", "abcdefghij", formrules.Rules{MinLen: 10}, ""},
		{"max length", strings.Repeat("x", 101), formrules.Rules{MaxLen: 100}, "Maximum 100 characters allowed"},
		{"exactly max", strings.Repeat("x", 100), formrules.Rules{MaxLen: 100}, ""},
		{"trimmed before counting", "  " + strings.Repeat("x", 100) + "  ", formrules.Rules{MaxLen: 100}, ""},
		{"runes not bytes", strings.Repeat("é", 10), formrules.Rules{MaxLen: 10}, ""},
		{"email ok", "a@b.co", formrules.Rules{Format: formrules.FormatEmail}, ""},
		{"email bad", "not-an-email", formrules.Rules{Format: formrules.FormatEmail}, "Invalid email format"},
		{"phone ok", "9876543210", formrules.Rules{Format: formrules.FormatPhone10}, ""},
		{"phone short", "98765", formrules.Rules{Format: formrules.FormatPhone10}, "Contact must be 10 digits"},
		{"phone letters", "98765abcde", formrules.Rules{Format: formrules.FormatPhone10}, "Contact must be 10 digits"},
		{"percent ok", "99.5", formrules.Rules{Format: formrules.FormatPercentage}, ""},
		{"percent high", "101", formrules.Rules{Format: formrules.FormatPercentage}, "Must be a number between 0 and 100"},
		{"percent nan", "abc", formrules.Rules{Format: formrules.FormatPercentage}, "Must be a number between 0 and 100"},
		{"percent NaN", "NaN", formrules.Rules{Format: formrules.FormatPercentage}, "Must be a number between 0 and 100"},
		{"percent lower nan", "nan", formrules.Rules{Format: formrules.FormatPercentage}, "Must be a number between 0 and 100"},
		{"percent exponent", "1e1", formrules.Rules{Format: formrules.FormatPercentage}, "Must be a number between 0 and 100"},
		{"percent hex float", "0x1p4", formrules.Rules{Format: formrules.FormatPercentage}, "Must be a number between 0 and 100"},
		{"percent inf", "Inf", formrules.Rules{Format: formrules.FormatPercentage}, "Must be a number between 0 and 100"},
		{"percent negative", "-1", formrules.Rules{Format: formrules.FormatPercentage}, "Must be a number between 0 and 100"},
		{"percent bounds", "100", formrules.Rules{Format: formrules.FormatPercentage}, ""},
		{"percent zero", "0", formrules.Rules{Format: formrules.FormatPercentage}, ""},
		{"pattern", "abc", formrules.Rules{Pattern: regexp.MustCompile(`^\d+$`), PatternMessage: "Digits only"}, "Digits only"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formrules.ValidateField(tt.value, tt.rules); got != tt.want {
				t.Errorf("ValidateField(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestValidateField_Precedence(t *testing.T) {
	// Length is checked before format.
	r := formrules.Rules{Required: true, MinLen: 20, Format: formrules.FormatEmail}
	if got := formrules.ValidateField("bad", r); got != "Must be at least 20 characters" {
		t.Errorf("got %q", got)
	}
}

func TestValidateAll(t *testing.T) {
	rs := formrules.Ruleset{
		"title":    {Required: true, MinLen: 10, MaxLen: 500},
		"subTitle": {Required: true, MinLen: 10, MaxLen: 500},
		"email":    {Format: formrules.FormatEmail},
	}
	errs := formrules.ValidateAll(map[string]string{
		"title": "A sufficiently long title",
		"email": "nope",
	}, rs)

	if !errs.Any() {
		t.Fatal("expected errors")
	}
	if len(errs) != 2 {
		t.Errorf("got %d errors, want 2: %v", len(errs), errs)
	}
	if errs.Get("subTitle") != "This field is required" {
		t.Errorf("subTitle = %q", errs.Get("subTitle"))
	}
	if errs.Get("email") != "Invalid email format" {
		t.Errorf("email = %q", errs.Get("email"))
	}
	if errs.Get("title") != "" {
		t.Errorf("title should be valid, got %q", errs.Get("title"))
	}
	if errs.First() != "Invalid email format" {
		t.Errorf("First = %q", errs.First())
	}
}

func TestValidateAll_Valid(t *testing.T) {
	errs := formrules.ValidateAll(map[string]string{"name": "Asha"}, formrules.Ruleset{"name": {Required: true}})
	if errs.Any() {
		t.Errorf("expected no errors, got %v", errs)
	}
}
