// internal/domain/models/teacher.go
package models

// Teacher is a faculty member card. Qualifications are edited as a
// comma-separated list and sent to the API as a JSON array string.
type Teacher struct {
	Meta
	Name           string     `json:"name"`
	Qualifications StringList `json:"qualifications"`
	Subject        string     `json:"subject,omitempty"`
	Photo          string     `json:"photo,omitempty"`
}

func (t Teacher) FieldValues() map[string]string {
	return map[string]string{
		"name":           t.Name,
		"qualifications": t.Qualifications.String(),
		"subject":        t.Subject,
	}
}

func (t Teacher) ImageFiles() map[string]string {
	return nonEmpty(map[string]string{"photo": t.Photo})
}

func (t Teacher) Summary() (string, string) { return t.Name, t.Qualifications.String() }
