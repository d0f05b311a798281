// internal/app/system/crudeditor/schema.go
package crudeditor

import (
	"github.com/dalemusser/institutehub/internal/app/system/formrules"
	"github.com/dalemusser/institutehub/internal/app/system/imageprep"
)

// FieldKind selects the input control a field is edited with.
type FieldKind int

const (
	KindText FieldKind = iota
	KindTextArea
	KindList // comma-separated list
)

// FieldSpec describes one text field of a resource.
type FieldSpec struct {
	Name  string
	Label string
	Kind  FieldKind
	Rules formrules.Rules
	// Encode transforms the trimmed value before it is sent.
	Encode func(string) string
}

// ImageSpec describes one image field of a resource.
type ImageSpec struct {
	Field            string // multipart part name
	Label            string
	Constraints      imageprep.Constraints
	Target           imageprep.Target
	RequiredOnCreate bool
	RequiredMessage  string
}

func (s ImageSpec) requiredMessage() string {
	if s.RequiredMessage != "" {
		return s.RequiredMessage
	}
	return "Image is required"
}

// Schema is everything the editor needs to know about a resource's form.
type Schema struct {
	Fields []FieldSpec
	Images []ImageSpec

	// Singleton resources have at most one record; the editor opens it in
	// Edit mode whenever the draft is pristine.
	Singleton bool
	// Toggle enables ToggleActive.
	Toggle bool
	// CreateDefaults are sent with every create, e.g. status=active.
	CreateDefaults map[string]string
	// Carry names record fields copied unchanged into every update.
	Carry []string
	// DeletePrompt is shown before a delete.
	DeletePrompt string
}

// Ruleset returns the validation rules keyed by field name.
func (s Schema) Ruleset() formrules.Ruleset {
	rs := make(formrules.Ruleset, len(s.Fields))
	for _, f := range s.Fields {
		rs[f.Name] = f.Rules
	}
	return rs
}

func (s Schema) field(name string) (FieldSpec, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

func (s Schema) image(field string) (ImageSpec, bool) {
	for _, im := range s.Images {
		if im.Field == field {
			return im, true
		}
	}
	return ImageSpec{}, false
}

// ConfirmPrompt is the question asked before a delete.
func (s Schema) ConfirmPrompt() string {
	if s.DeletePrompt != "" {
		return s.DeletePrompt
	}
	return "Are you sure you want to delete this item?"
}
