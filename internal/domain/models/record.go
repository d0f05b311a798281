// internal/domain/models/record.go
package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Record is implemented by every institute record the admin console edits.
//
// The REST API is the system of record; these types only describe what it
// returns. FieldValues seeds a Draft in edit mode and ImageFiles names the
// images already stored on the server, keyed by the multipart part name used
// to upload them.
type Record interface {
	RecordID() ID
	FieldValues() map[string]string
	ImageFiles() map[string]string
	Summary() (title, subtitle string)
}

// Activatable is implemented by records that carry an active flag.
type Activatable interface {
	IsActive() bool
}

// ID is a server-assigned record identifier. The API returns numeric ids for
// some tables and string ids (Mongo-style) for others; both decode into ID.
type ID string

// UnmarshalJSON accepts a JSON string or number.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// IsZero reports whether the id is unset.
func (id ID) IsZero() bool { return id == "" }

// Meta holds the identity and audit fields shared by every record.
// Some endpoints name the id "_id"; RecordID prefers "id".
type Meta struct {
	ID        ID     `json:"id,omitempty"`
	AltID     ID     `json:"_id,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// RecordID returns the record's server id.
func (m Meta) RecordID() ID {
	if !m.ID.IsZero() {
		return m.ID
	}
	return m.AltID
}

// StringList is a list of strings the API may send as a JSON array, as a
// JSON-encoded array inside a string, or as a comma-separated string.
type StringList []string

// UnmarshalJSON accepts all three encodings.
func (l *StringList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*l = nil
		return nil
	}
	if b[0] == '[' {
		var xs []string
		if err := json.Unmarshal(b, &xs); err != nil {
			return err
		}
		*l = xs
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "[") {
		var xs []string
		if err := json.Unmarshal([]byte(s), &xs); err == nil {
			*l = xs
			return nil
		}
	}
	*l = SplitList(s)
	return nil
}

// String joins the list for display and for seeding a comma-separated input.
func (l StringList) String() string {
	return strings.Join(l, ", ")
}

// SplitList splits comma-separated input, trimming items and dropping blanks.
func SplitList(s string) StringList {
	parts := strings.Split(s, ",")
	out := make(StringList, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// EncodeList turns comma-separated input into the JSON array string the API
// expects in multipart bodies, e.g. "M.Sc, B.Ed" → ["M.Sc","B.Ed"].
func EncodeList(s string) string {
	b, err := json.Marshal([]string(SplitList(s)))
	if err != nil {
		return "[]"
	}
	return string(b)
}

// Flag is a boolean the API may send as true/false, 0/1, or "true"/"1".
type Flag bool

// UnmarshalJSON accepts booleans, numbers and their string forms.
func (f *Flag) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	switch strings.ToLower(s) {
	case "", "null", "false", "0", "no", "inactive":
		*f = false
		return nil
	case "true", "1", "yes", "active":
		*f = true
		return nil
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		*f = n != 0
		return nil
	}
	*f = false
	return nil
}

func (f Flag) String() string {
	if f {
		return "true"
	}
	return "false"
}

// nonEmpty drops blank filenames so ImageFiles only reports stored images.
func nonEmpty(m map[string]string) map[string]string {
	for k, v := range m {
		if strings.TrimSpace(v) == "" {
			delete(m, k)
		}
	}
	return m
}
