// internal/domain/models/scroll.go
package models

// Scroll status values.
const (
	ScrollActive   = "active"
	ScrollInactive = "inactive"
)

// ScrollMessage is a line in the home-page news ticker. Text only, sent as JSON.
type ScrollMessage struct {
	Meta
	Content string `json:"content"`
	Status  string `json:"status"`
}

func (s ScrollMessage) FieldValues() map[string]string {
	return map[string]string{"content": s.Content, "status": s.Status}
}

func (s ScrollMessage) ImageFiles() map[string]string { return map[string]string{} }

func (s ScrollMessage) Summary() (string, string) { return s.Content, s.Status }

func (s ScrollMessage) IsActive() bool { return s.Status == ScrollActive }
