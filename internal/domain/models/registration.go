// internal/domain/models/registration.go
package models

// StudentContact is an enquiry submitted through the public contact form.
type StudentContact struct {
	Meta
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Place   string `json:"place"`
	Message string `json:"message"`
}

func (s StudentContact) FieldValues() map[string]string {
	return map[string]string{
		"name":      s.Name,
		"email":     s.Email,
		"phone":     s.Phone,
		"place":     s.Place,
		"message":   s.Message,
		"createdAt": s.CreatedAt,
	}
}

func (s StudentContact) ImageFiles() map[string]string { return map[string]string{} }

func (s StudentContact) Summary() (string, string) { return s.Name, s.Email + " · " + s.Phone }

// CourseRegistration is a course sign-up collected by the API. The console
// only lists them.
type CourseRegistration struct {
	Meta
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Course string `json:"course"`
	Place  string `json:"place,omitempty"`
}

func (c CourseRegistration) FieldValues() map[string]string {
	return map[string]string{
		"name":      c.Name,
		"email":     c.Email,
		"phone":     c.Phone,
		"course":    c.Course,
		"place":     c.Place,
		"createdAt": c.CreatedAt,
	}
}

func (c CourseRegistration) ImageFiles() map[string]string { return map[string]string{} }

func (c CourseRegistration) Summary() (string, string) { return c.Name, c.Course }
