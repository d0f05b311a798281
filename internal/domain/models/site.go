// internal/domain/models/site.go
package models

// DefaultInstituteName is shown in page titles when site_name is not configured.
const DefaultInstituteName = "Talent Institute"
