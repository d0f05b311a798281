// internal/domain/models/course.go
package models

// Course is an entry on the "Our Courses" page.
type Course struct {
	Meta
	Heading     string `json:"heading"`
	Subheading  string `json:"subheading"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
}

func (c Course) FieldValues() map[string]string {
	return map[string]string{
		"heading":     c.Heading,
		"subheading":  c.Subheading,
		"description": c.Description,
	}
}

func (c Course) ImageFiles() map[string]string {
	return nonEmpty(map[string]string{"image": c.Image})
}

func (c Course) Summary() (string, string) { return c.Heading, c.Subheading }
