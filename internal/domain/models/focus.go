// internal/domain/models/focus.go
package models

// FocusItem is one card in the "Our Focus" section.
type FocusItem struct {
	Meta
	Heading     string `json:"heading"`
	SubHeading  string `json:"subHeading"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
}

func (f FocusItem) FieldValues() map[string]string {
	return map[string]string{
		"heading":     f.Heading,
		"subHeading":  f.SubHeading,
		"description": f.Description,
	}
}

func (f FocusItem) ImageFiles() map[string]string {
	return nonEmpty(map[string]string{"image": f.Image})
}

func (f FocusItem) Summary() (string, string) { return f.Heading, f.SubHeading }

// FocusMeta is the singleton header (title + top banner) of the focus page.
// The API addresses it without an id.
type FocusMeta struct {
	Meta
	Title     string `json:"title"`
	TopBanner string `json:"topBanner,omitempty"`
}

func (f FocusMeta) FieldValues() map[string]string {
	return map[string]string{"title": f.Title}
}

func (f FocusMeta) ImageFiles() map[string]string {
	return nonEmpty(map[string]string{"topBanner": f.TopBanner})
}

func (f FocusMeta) Summary() (string, string) { return f.Title, "" }
