// internal/app/features/admin/page.go
package admin

import (
	"net/http"

	"github.com/dalemusser/institutehub/internal/app/resources"
	"github.com/dalemusser/institutehub/internal/app/system/crudeditor"
	"github.com/dalemusser/institutehub/internal/app/system/listview"
	"github.com/dalemusser/institutehub/internal/app/system/paging"
	"github.com/dalemusser/institutehub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type navItem struct {
	Title  string
	URL    string
	Active bool
}

type dashboardData struct {
	viewdata.BaseVM
	Nav []navItem
}

type fieldVM struct {
	Name     string
	Label    string
	Input    string // text, textarea, email, tel
	Value    string
	Error    string
	Required bool
	MaxLen   int
}

type imageVM struct {
	Field       string
	Label       string
	PreviewURL  string
	ExistingURL string
	FileName    string
	Error       string
	Required    bool
}

type pageData struct {
	viewdata.BaseVM
	Nav     []navItem
	Info    resources.Info
	Action  string
	Notices []crudeditor.Notice
	Busy    bool

	Editing   bool
	EditingID string
	Fields    []fieldVM
	Images    []imageVM
	Rows      []listview.Row

	Table listview.Table
}

func (h *Handler) nav(active string) []navItem {
	out := make([]navItem, 0, len(h.Bindings))
	for _, b := range h.Bindings {
		info := b.Info()
		out = append(out, navItem{
			Title:  info.Title,
			URL:    h.Deps.BasePath + "/" + info.Key,
			Active: info.Key == active,
		})
	}
	return out
}

// Dashboard lists every managed resource.
// GET /admin
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "admin_dashboard", dashboardData{
		BaseVM: viewdata.NewBaseVM(r, "Admin", "/"),
		Nav:    h.nav(""),
	})
}

// Page shows one resource: the draft form beside the list, or a searchable
// table for read-mostly resources. Every visit refetches the list.
// GET /admin/{resource}
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	s, ok := h.open(w, r)
	if !ok {
		return
	}
	if err := s.Refresh(r.Context()); err != nil {
		h.ErrLog.LogAPIError(w, r, "admin list failed", err, h.Deps.BasePath)
		return
	}
	templates.Render(w, r, "admin_page", h.buildPage(r, s))
}

func (h *Handler) buildPage(r *http.Request, s resources.Session) pageData {
	info := s.Info()
	data := pageData{
		BaseVM:  viewdata.NewBaseVM(r, info.Title, h.Deps.BasePath),
		Nav:     h.nav(info.Key),
		Info:    info,
		Action:  h.pagePath(s),
		Notices: s.DrainNotices(),
		Busy:    s.Busy(),
	}

	if info.IsTable {
		q := r.URL.Query()
		data.Table = s.Table(listview.TableOptions{
			Query:   q.Get("q"),
			SortKey: q.Get("sort"),
			Desc:    q.Get("dir") == "desc",
			Start:   paging.ParseStart(r),
		})
		return data
	}

	d := s.Draft()
	data.Editing = d.Mode == crudeditor.ModeEdit
	data.EditingID = d.EditingID.String()
	data.Rows = s.Rows()

	schema := s.Schema()
	for _, f := range schema.Fields {
		data.Fields = append(data.Fields, fieldVM{
			Name:     f.Name,
			Label:    f.Label,
			Input:    inputType(f.Kind),
			Value:    d.Values[f.Name],
			Error:    d.Errors.Get(f.Name),
			Required: f.Rules.Required,
			MaxLen:   f.Rules.MaxLen,
		})
	}
	for _, im := range schema.Images {
		di := d.Images[im.Field]
		vm := imageVM{
			Field:      im.Field,
			Label:      im.Label,
			PreviewURL: di.Preview.URL(),
			FileName:   di.FileName,
			Error:      di.Error,
			Required:   im.RequiredOnCreate && !data.Editing,
		}
		if vm.Error == "" {
			vm.Error = d.Errors.Get(im.Field)
		}
		if di.Existing != "" {
			vm.ExistingURL = s.ImageURL(di.Existing)
		}
		data.Images = append(data.Images, vm)
	}
	h.Log.Debug("admin page built",
		zap.String("resource", info.Key),
		zap.Bool("editing", data.Editing),
		zap.Int("rows", len(data.Rows)))
	return data
}

func inputType(k crudeditor.FieldKind) string {
	switch k {
	case crudeditor.KindTextArea:
		return "textarea"
	default:
		return "text"
	}
}
