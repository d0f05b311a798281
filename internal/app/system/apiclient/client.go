// internal/app/system/apiclient/client.go
package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/dalemusser/institutehub/internal/domain/models"
)

// Endpoint describes where a resource lives on the API and how it is written.
type Endpoint struct {
	Resource    string   // label for logs and metrics, e.g. "banners"
	Path        string   // write base, e.g. "/banner"
	ListPath    string   // read path when it differs from Path, e.g. "/allbanners"
	EnvelopeKey string   // resource-specific envelope key, e.g. "scroll"
	Encoding    Encoding // Multipart or JSON
	NoID        bool     // the API addresses the single record by Path alone
}

func (e Endpoint) listPath() string {
	if e.ListPath != "" {
		return e.ListPath
	}
	return e.Path
}

func (e Endpoint) itemPath(id models.ID) string {
	if e.NoID || id.IsZero() {
		return e.Path
	}
	return strings.TrimRight(e.Path, "/") + "/" + url.PathEscape(id.String())
}

// Client performs CRUD calls for one resource type. A Client is immutable;
// WithCredentials returns a copy bound to an admin's session.
type Client[R any] struct {
	t     *Transport
	ep    Endpoint
	creds Credentials
}

// NewClient returns an anonymous client for ep.
func NewClient[R any](t *Transport, ep Endpoint) *Client[R] {
	return &Client[R]{t: t, ep: ep}
}

// WithCredentials returns a copy of c whose calls carry creds.
func (c *Client[R]) WithCredentials(creds Credentials) *Client[R] {
	cp := *c
	cp.creds = creds
	return &cp
}

// Endpoint returns the endpoint the client talks to.
func (c *Client[R]) Endpoint() Endpoint { return c.ep }

// ImageURL returns the public URL of an uploaded file.
func (c *Client[R]) ImageURL(filename string) string { return c.t.ImageURL(filename) }

// List fetches every record.
func (c *Client[R]) List(ctx context.Context) ([]R, error) {
	rep, err := c.t.do(ctx, call{
		resource: c.ep.Resource,
		op:       "list",
		method:   http.MethodGet,
		path:     c.ep.listPath(),
		creds:    c.creds,
	})
	if err != nil {
		return nil, err
	}
	return decodeList[R](rep.body, c.ep.EnvelopeKey)
}

// Get fetches one record.
func (c *Client[R]) Get(ctx context.Context, id models.ID) (R, error) {
	var zero R
	rep, err := c.t.do(ctx, call{
		resource: c.ep.Resource,
		op:       "get",
		method:   http.MethodGet,
		path:     c.ep.itemPath(id),
		creds:    c.creds,
	})
	if err != nil {
		return zero, err
	}
	return decodeOne[R](rep.body, c.ep.EnvelopeKey)
}

// Create adds a record. The returned record is whatever the API echoed back
// and may be the zero value; callers refetch the list for truth.
func (c *Client[R]) Create(ctx context.Context, p Payload) (R, error) {
	return c.write(ctx, "create", http.MethodPost, c.ep.Path, p)
}

// Update replaces a record's fields. For NoID endpoints the API takes a POST
// to the base path.
func (c *Client[R]) Update(ctx context.Context, id models.ID, p Payload) (R, error) {
	if c.ep.NoID {
		return c.write(ctx, "update", http.MethodPost, c.ep.Path, p)
	}
	return c.write(ctx, "update", http.MethodPut, c.ep.itemPath(id), p)
}

// Remove deletes a record.
func (c *Client[R]) Remove(ctx context.Context, id models.ID) error {
	_, err := c.t.do(ctx, call{
		resource: c.ep.Resource,
		op:       "delete",
		method:   http.MethodDelete,
		path:     c.ep.itemPath(id),
		creds:    c.creds,
	})
	return err
}

// ToggleActive flips a record's active flag. The server decides the side
// effects (for faculty it deactivates the others).
func (c *Client[R]) ToggleActive(ctx context.Context, id models.ID) error {
	_, err := c.t.do(ctx, call{
		resource: c.ep.Resource,
		op:       "toggle",
		method:   http.MethodPatch,
		path:     c.ep.itemPath(id) + "/toggle",
		creds:    c.creds,
	})
	return err
}

func (c *Client[R]) write(ctx context.Context, op, method, path string, p Payload) (R, error) {
	var zero R
	body, ct, err := p.encode(c.ep.Encoding)
	if err != nil {
		return zero, err
	}
	rep, err := c.t.do(ctx, call{
		resource:    c.ep.Resource,
		op:          op,
		method:      method,
		path:        path,
		body:        body,
		contentType: ct,
		creds:       c.creds,
	})
	if err != nil {
		return zero, err
	}
	out, derr := decodeOne[R](rep.body, c.ep.EnvelopeKey)
	if derr != nil {
		c.t.log.Debug("ignoring undecodable write response")
		return zero, nil
	}
	return out, nil
}
