// internal/domain/models/result.go
package models

// Result is an exam-result poster. The site lists results newest first.
type Result struct {
	Meta
	Title string `json:"title,omitempty"`
	Image string `json:"image,omitempty"`
}

func (r Result) FieldValues() map[string]string {
	return map[string]string{"title": r.Title}
}

func (r Result) ImageFiles() map[string]string {
	return nonEmpty(map[string]string{"image": r.Image})
}

func (r Result) Summary() (string, string) { return r.Title, "" }
