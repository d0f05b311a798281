// internal/app/system/imageprep/imageprep.go
//
// Package imageprep validates uploaded images and normalises them to the
// fixed pixel dimensions each page layout expects before they are sent to
// the content API.
package imageprep

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
)

// Supported MIME types.
const (
	TypeJPEG = "image/jpeg"
	TypePNG  = "image/png"
)

// Common size ceilings.
const (
	MB          = 1 << 20
	Limit2MB    = 2 * MB
	Limit5MB    = 5 * MB
	DefaultJPEG = 80
)

// File is an image selected by the admin, before any processing.
type File struct {
	Field       string // form part the image belongs to
	Name        string
	ContentType string
	Data        []byte
}

// Size returns the file size in bytes.
func (f File) Size() int64 { return int64(len(f.Data)) }

// Constraints bound which files are accepted. SizeMessage replaces the
// generated oversize message when set.
type Constraints struct {
	MaxBytes     int64
	AllowedTypes []string
	SizeMessage  string
}

// DefaultConstraints accepts JPEG or PNG up to 2MB.
func DefaultConstraints() Constraints {
	return Constraints{MaxBytes: Limit2MB, AllowedTypes: []string{TypeJPEG, TypePNG}}
}

// Target is the exact output size. Quality applies to JPEG only (1–100).
type Target struct {
	Width   int
	Height  int
	Quality int
}

// Processed is a resized image ready to upload.
type Processed struct {
	Field       string
	Name        string
	ContentType string
	Data        []byte
	Width       int
	Height      int
}

// Validate checks type and size without decoding. The declared type is
// trusted when present; otherwise the content is sniffed.
func Validate(f File, c Constraints) error {
	ct := normalizeType(f.ContentType)
	if ct == "" || ct == "application/octet-stream" {
		ct = normalizeType(http.DetectContentType(f.Data))
	}
	if !allowed(ct, c.AllowedTypes) {
		return &Error{Field: f.Field, Message: typeMessage(c.AllowedTypes), Kind: ErrUnsupportedType}
	}
	if c.MaxBytes > 0 && f.Size() > c.MaxBytes {
		msg := c.SizeMessage
		if msg == "" {
			msg = sizeMessage(c.MaxBytes)
		}
		return &Error{Field: f.Field, Message: msg, Kind: ErrTooLarge}
	}
	return nil
}

// Resize decodes f, stretches it to exactly t.Width×t.Height and re-encodes
// it in its original format. Aspect ratio is not preserved.
func Resize(ctx context.Context, f File, t Target) (Processed, error) {
	if err := ctx.Err(); err != nil {
		return Processed{}, err
	}
	if t.Width <= 0 || t.Height <= 0 {
		return Processed{}, &Error{Field: f.Field, Message: "Failed to process image", Kind: ErrProcessImage,
			Err: fmt.Errorf("invalid target %dx%d", t.Width, t.Height)}
	}

	src, format, err := image.Decode(bytes.NewReader(f.Data))
	if err != nil {
		return Processed{}, &Error{Field: f.Field, Message: "Failed to process image", Kind: ErrProcessImage, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return Processed{}, err
	}

	dst := imaging.Resize(src, t.Width, t.Height, imaging.Lanczos)

	ct := normalizeType(f.ContentType)
	if ct != TypeJPEG && ct != TypePNG {
		ct = "image/" + format
	}

	var buf bytes.Buffer
	switch ct {
	case TypePNG:
		err = imaging.Encode(&buf, dst, imaging.PNG)
	default:
		ct = TypeJPEG
		q := t.Quality
		if q <= 0 || q > 100 {
			q = DefaultJPEG
		}
		err = imaging.Encode(&buf, dst, imaging.JPEG, imaging.JPEGQuality(q))
	}
	if err != nil {
		return Processed{}, &Error{Field: f.Field, Message: "Failed to process image", Kind: ErrProcessImage, Err: err}
	}

	return Processed{
		Field:       f.Field,
		Name:        f.Name,
		ContentType: ct,
		Data:        buf.Bytes(),
		Width:       t.Width,
		Height:      t.Height,
	}, nil
}

// Prepare validates f against c and, if accepted, resizes it to t.
func Prepare(ctx context.Context, f File, c Constraints, t Target) (Processed, error) {
	if err := Validate(f, c); err != nil {
		return Processed{}, err
	}
	return Resize(ctx, f, t)
}

func normalizeType(ct string) string {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if ct == "image/jpg" || ct == "image/pjpeg" {
		return TypeJPEG
	}
	return ct
}

func allowed(ct string, types []string) bool {
	if len(types) == 0 {
		types = []string{TypeJPEG, TypePNG}
	}
	for _, t := range types {
		if normalizeType(t) == ct {
			return true
		}
	}
	return false
}

func typeMessage(types []string) string {
	if len(types) == 0 {
		return "Only JPEG/PNG images allowed"
	}
	names := make([]string, 0, len(types))
	for _, t := range types {
		switch normalizeType(t) {
		case TypeJPEG:
			names = append(names, "JPEG")
		case TypePNG:
			names = append(names, "PNG")
		default:
			names = append(names, strings.ToUpper(strings.TrimPrefix(t, "image/")))
		}
	}
	return "Only " + strings.Join(names, "/") + " images allowed"
}

func sizeMessage(max int64) string {
	if max%MB == 0 {
		return fmt.Sprintf("Image must be less than %dMB", max/MB)
	}
	return fmt.Sprintf("Image must be less than %dKB", max/1024)
}
