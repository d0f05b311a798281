// internal/domain/models/banner.go
package models

// Banner is a home-page hero slide. Images are stored at 1920×600.
type Banner struct {
	Meta
	Title string `json:"title"`
	Image string `json:"image,omitempty"`
}

func (b Banner) FieldValues() map[string]string {
	return map[string]string{"title": b.Title}
}

func (b Banner) ImageFiles() map[string]string {
	return nonEmpty(map[string]string{"image": b.Image})
}

func (b Banner) Summary() (string, string) { return b.Title, "" }
