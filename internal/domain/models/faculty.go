// internal/domain/models/faculty.go
package models

// Faculty is the "faculty-main" home-page section. The API keeps at most one
// active faculty entry; activating one deactivates the others server-side.
type Faculty struct {
	Meta
	Title    string `json:"title"`
	SubTitle string `json:"subTitle"`
	Photo    string `json:"photo,omitempty"`
	Active   Flag   `json:"active"`
}

func (f Faculty) FieldValues() map[string]string {
	return map[string]string{"title": f.Title, "subTitle": f.SubTitle}
}

func (f Faculty) ImageFiles() map[string]string {
	return nonEmpty(map[string]string{"photo": f.Photo})
}

func (f Faculty) Summary() (string, string) { return f.Title, f.SubTitle }

func (f Faculty) IsActive() bool { return bool(f.Active) }
