// internal/app/resources/binding.go
package resources

import (
	"context"

	"github.com/dalemusser/institutehub/internal/app/system/apiclient"
	"github.com/dalemusser/institutehub/internal/app/system/crudeditor"
	"github.com/dalemusser/institutehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/institutehub/internal/app/system/imageprep"
	"github.com/dalemusser/institutehub/internal/app/system/listview"
	"github.com/dalemusser/institutehub/internal/domain/models"
	"go.uber.org/zap"
)

// Definition describes one admin-managed resource: where it lives on the API,
// how its form validates, and how its list is shown.
type Definition[R models.Record] struct {
	Key      string // URL segment under /admin
	Title    string
	Endpoint apiclient.Endpoint
	Schema   crudeditor.Schema
	List     listview.Options

	// Table resources are listed as a searchable table with no form.
	Table     []listview.Column
	Deletable bool // table rows can be deleted

	// CreateOnly resources can be created and deleted but never edited.
	CreateOnly bool
}

// Public returns an anonymous client for the public site.
func (d Definition[R]) Public(t *apiclient.Transport) *apiclient.Client[R] {
	return apiclient.NewClient[R](t, d.Endpoint)
}

// Info is the type-independent description of a resource page.
type Info struct {
	Key        string
	Title      string
	IsTable    bool
	Singleton  bool
	CreateOnly bool
	Toggle     bool
	Deletable  bool
}

// Binding is a Definition with its record type erased so handlers can serve
// every resource through one set of routes.
type Binding interface {
	Info() Info
	Open(d Deps, session string, creds apiclient.Credentials) Session
}

// Deps are the shared services a Session needs.
type Deps struct {
	Transport *apiclient.Transport
	Registry  *crudeditor.Registry
	Previews  *imageprep.PreviewStore
	Logger    *zap.Logger
	BasePath  string // admin root, e.g. "/admin"
}

// Session is one admin's editor for one resource.
type Session interface {
	Info() Info
	Schema() crudeditor.Schema
	Draft() crudeditor.Draft
	Busy() bool
	DrainNotices() []crudeditor.Notice

	SetFields(values map[string]string) error
	SelectImage(ctx context.Context, field string, f imageprep.File) error
	ClearImage(field string) error
	BeginEdit(id models.ID) error
	Cancel() error
	Submit(ctx context.Context) error
	Delete(ctx context.Context, id models.ID, c crudeditor.Confirmer) (bool, error)
	ToggleActive(ctx context.Context, id models.ID) error
	Refresh(ctx context.Context) error

	Rows() []listview.Row
	Find(id models.ID) (listview.Row, bool)
	Table(o listview.TableOptions) listview.Table
	ImageURL(filename string) string
}

// Info implements Binding.
func (d Definition[R]) Info() Info {
	return Info{
		Key:        d.Key,
		Title:      d.Title,
		IsTable:    len(d.Table) > 0,
		Singleton:  d.Schema.Singleton,
		CreateOnly: d.CreateOnly,
		Toggle:     d.Schema.Toggle,
		Deletable:  len(d.Table) == 0 || d.Deletable,
	}
}

// Open returns the session's editor for d, creating it on first use. The
// editor keeps the credentials it was built with until the session's
// editors are closed.
func (d Definition[R]) Open(deps Deps, session string, creds apiclient.Credentials) Session {
	client := apiclient.NewClient[R](deps.Transport, d.Endpoint).WithCredentials(creds)
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ed := crudeditor.GetOrCreate(deps.Registry, session, d.Key, func(owner string) *crudeditor.Editor[R] {
		return crudeditor.New(crudeditor.Options[R]{
			Resource: d.Key,
			Owner:    owner,
			Schema:   d.Schema,
			API:      client,
			Previews: deps.Previews,
			Logger:   logger,
			Sanitize: htmlsanitize.StripTags,
		})
	})
	return &typedSession[R]{Editor: ed, def: d, client: client, base: deps.BasePath + "/" + d.Key}
}

type typedSession[R models.Record] struct {
	*crudeditor.Editor[R]
	def    Definition[R]
	client *apiclient.Client[R]
	base   string
}

func (s *typedSession[R]) Info() Info { return s.def.Info() }

func (s *typedSession[R]) ImageURL(filename string) string { return s.client.ImageURL(filename) }

func (s *typedSession[R]) Rows() []listview.Row {
	o := s.def.List
	o.BasePath = s.base
	o.Toggle = s.def.Schema.Toggle
	o.NoEdit = s.def.CreateOnly || s.def.Schema.Singleton
	o.ImageURL = s.client.ImageURL
	o.EditingID = s.Draft().EditingID
	return listview.Build(s.Items(), o)
}

func (s *typedSession[R]) Find(id models.ID) (listview.Row, bool) {
	for _, r := range s.Rows() {
		if r.ID == id {
			return r, true
		}
	}
	return listview.Row{}, false
}

func (s *typedSession[R]) Table(o listview.TableOptions) listview.Table {
	o.BasePath = s.base
	o.Columns = s.def.Table
	o.Delete = s.def.Deletable
	return listview.BuildTable(s.Items(), o)
}

// ByKey returns the binding registered under key.
func ByKey(bs []Binding, key string) (Binding, bool) {
	for _, b := range bs {
		if b.Info().Key == key {
			return b, true
		}
	}
	return nil, false
}
