// internal/app/system/listview/listview.go
package listview

import (
	"net/url"
	"sort"

	"github.com/dalemusser/institutehub/internal/domain/models"
)

// Row is one rendered list entry with its intent URLs.
type Row struct {
	ID        models.ID
	Title     string
	Subtitle  string
	Thumb     string
	HasActive bool
	Active    bool
	Editing   bool

	EditURL   string // GET: load the record into the editor
	DeleteURL string // GET: confirm page, POST: delete
	ToggleURL string // POST: flip the active flag
}

// Options control how rows are built.
type Options struct {
	BasePath   string // admin page root, e.g. "/admin/banners"
	Reverse    bool   // newest first
	Toggle     bool   // resource supports activate/deactivate
	NoEdit     bool   // records can only be created and deleted
	ThumbField string // image key to show; first stored image when empty
	ImageURL   func(filename string) string
	EditingID  models.ID
}

// Build turns the authoritative list into rows. It never changes items.
func Build[R models.Record](items []R, o Options) []Row {
	rows := make([]Row, 0, len(items))
	for _, it := range items {
		id := it.RecordID()
		title, sub := it.Summary()
		row := Row{
			ID:       id,
			Title:    title,
			Subtitle: sub,
			Thumb:    thumb(it.ImageFiles(), o),
			Editing:  id != "" && id == o.EditingID,
		}
		if a, ok := any(it).(models.Activatable); ok {
			row.HasActive = true
			row.Active = a.IsActive()
		}
		if id != "" && o.BasePath != "" {
			base := o.BasePath + "/" + url.PathEscape(id.String())
			if !o.NoEdit {
				row.EditURL = base + "/edit"
			}
			row.DeleteURL = base + "/delete"
			if o.Toggle && row.HasActive {
				row.ToggleURL = base + "/toggle"
			}
		}
		rows = append(rows, row)
	}
	if o.Reverse {
		for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
			rows[i], rows[j] = rows[j], rows[i]
		}
	}
	return rows
}

func thumb(files map[string]string, o Options) string {
	name := files[o.ThumbField]
	if name == "" {
		keys := make([]string, 0, len(files))
		for k := range files {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if files[k] != "" {
				name = files[k]
				break
			}
		}
	}
	if name == "" {
		return ""
	}
	if o.ImageURL == nil {
		return name
	}
	return o.ImageURL(name)
}
