// internal/domain/models/service.go
package models

// Service is an entry on the "Services & Features" page.
type Service struct {
	Meta
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
}

func (s Service) FieldValues() map[string]string {
	return map[string]string{"title": s.Title, "description": s.Description}
}

func (s Service) ImageFiles() map[string]string {
	return nonEmpty(map[string]string{"image": s.Image})
}

func (s Service) Summary() (string, string) { return s.Title, s.Description }

// Feature is a text-only highlight shown beside the services. It is sent as
// JSON rather than multipart.
type Feature struct {
	Meta
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (f Feature) FieldValues() map[string]string {
	return map[string]string{"title": f.Title, "description": f.Description}
}

func (f Feature) ImageFiles() map[string]string { return map[string]string{} }

func (f Feature) Summary() (string, string) { return f.Title, f.Description }
