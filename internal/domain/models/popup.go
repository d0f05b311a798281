// internal/domain/models/popup.go
package models

// Popup is an announcement image shown once on the home page. The image is
// uploaded as the "file" part and stored under Filename.
type Popup struct {
	Meta
	Title    string `json:"title,omitempty"`
	Filename string `json:"filename,omitempty"`
}

func (p Popup) FieldValues() map[string]string {
	return map[string]string{"title": p.Title}
}

func (p Popup) ImageFiles() map[string]string {
	return nonEmpty(map[string]string{"file": p.Filename})
}

func (p Popup) Summary() (string, string) { return p.Title, "" }
