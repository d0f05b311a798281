// internal/domain/models/gallery.go
package models

// GalleryImage is one photo in the public gallery.
type GalleryImage struct {
	Meta
	Title string `json:"title,omitempty"`
	Image string `json:"image,omitempty"`
}

func (g GalleryImage) FieldValues() map[string]string {
	return map[string]string{"title": g.Title}
}

func (g GalleryImage) ImageFiles() map[string]string {
	return nonEmpty(map[string]string{"image": g.Image})
}

func (g GalleryImage) Summary() (string, string) { return g.Title, "" }
