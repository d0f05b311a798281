// internal/domain/models/team.go
package models

// Team is a subject team photo card.
type Team struct {
	Meta
	Title string `json:"title"`
	Image string `json:"image,omitempty"`
}

func (t Team) FieldValues() map[string]string {
	return map[string]string{"title": t.Title}
}

func (t Team) ImageFiles() map[string]string {
	return nonEmpty(map[string]string{"image": t.Image})
}

func (t Team) Summary() (string, string) { return t.Title, "" }
