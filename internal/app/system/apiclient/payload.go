// internal/app/system/apiclient/payload.go
package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// Encoding selects how a resource's writes are sent.
type Encoding int

const (
	// Multipart sends multipart/form-data (resources with images).
	Multipart Encoding = iota
	// JSON sends a JSON object of the text fields (text-only resources).
	JSON
)

// Field is one text value of a write.
type Field struct {
	Name  string
	Value string
}

// FilePart is one file of a write.
type FilePart struct {
	Field       string
	Name        string
	ContentType string
	Data        []byte
}

// Payload is the body of a create or update. Field order is preserved.
type Payload struct {
	Fields []Field
	Files  []FilePart
}

// Set appends a text field.
func (p *Payload) Set(name, value string) {
	p.Fields = append(p.Fields, Field{Name: name, Value: value})
}

// AddFile appends a file part.
func (p *Payload) AddFile(f FilePart) {
	p.Files = append(p.Files, f)
}

// Value returns the first value for name.
func (p Payload) Value(name string) (string, bool) {
	for _, f := range p.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

func (p Payload) encode(enc Encoding) ([]byte, string, error) {
	if enc == JSON {
		if len(p.Files) > 0 {
			return nil, "", fmt.Errorf("json payload cannot carry files")
		}
		obj := make(map[string]string, len(p.Fields))
		for _, f := range p.Fields {
			obj[f.Name] = f.Value
		}
		b, err := json.Marshal(obj)
		if err != nil {
			return nil, "", err
		}
		return b, "application/json", nil
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range p.Fields {
		if err := mw.WriteField(f.Name, f.Value); err != nil {
			return nil, "", err
		}
	}
	for _, f := range p.Files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			escapeQuotes(f.Field), escapeQuotes(f.Name)))
		ct := f.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		w, err := mw.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := w.Write(f.Data); err != nil {
			return nil, "", err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), mw.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string { return quoteEscaper.Replace(s) }
