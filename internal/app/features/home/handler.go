// internal/app/features/home/handler.go
package home

import (
	"context"
	"html/template"
	"net/http"

	"github.com/dalemusser/institutehub/internal/app/resources"
	"github.com/dalemusser/institutehub/internal/app/system/apiclient"
	"github.com/dalemusser/institutehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/institutehub/internal/app/system/timeouts"
	"github.com/dalemusser/institutehub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// Handler holds dependencies needed to serve the home page.
type Handler struct {
	API *apiclient.Transport
	Log *zap.Logger
}

func NewHandler(api *apiclient.Transport, logger *zap.Logger) *Handler {
	return &Handler{
		API: api,
		Log: logger,
	}
}

type banner struct {
	Title    template.HTML
	ImageURL string
}

type slide struct {
	Title    string
	ImageURL string
}

type person struct {
	Name           string
	Qualifications string
	Subject        string
	PhotoURL       string
}

type facultyVM struct {
	Title    string
	SubTitle string
	PhotoURL string
}

type sections struct {
	Banners  []banner
	Popup    *slide
	Faculty  *facultyVM
	Teachers []person
	Teams    []slide
	Scroll   []string
}

type homeData struct {
	viewdata.BaseVM
	sections
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – landing                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeRoot renders the landing page. A section whose call fails is left
// out and logged.
func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.API(), h.Log, "home page")
	defer cancel()

	templates.Render(w, r, "home", homeData{
		BaseVM:   viewdata.NewBaseVM(r, "Welcome", "/"),
		sections: h.load(ctx),
	})
}

func (h *Handler) load(ctx context.Context) sections {
	var data sections

	if banners, err := resources.Banners.Public(h.API).List(ctx); h.ok(err, "banners") {
		for _, b := range banners {
			data.Banners = append(data.Banners, banner{
				Title:    htmlsanitize.PrepareForDisplay(b.Title),
				ImageURL: h.API.ImageURL(b.Image),
			})
		}
	}

	// The newest pop-up is the one shown.
	if popups, err := resources.Popups.Public(h.API).List(ctx); h.ok(err, "popups") && len(popups) > 0 {
		p := popups[len(popups)-1]
		data.Popup = &slide{Title: p.Title, ImageURL: h.API.ImageURL(p.Filename)}
	}

	if faculty, err := resources.Faculty.Public(h.API).List(ctx); h.ok(err, "faculty") {
		for _, f := range faculty {
			if f.IsActive() {
				data.Faculty = &facultyVM{Title: f.Title, SubTitle: f.SubTitle, PhotoURL: h.API.ImageURL(f.Photo)}
				break
			}
		}
	}

	if teachers, err := resources.Teachers.Public(h.API).List(ctx); h.ok(err, "teachers") {
		for _, t := range teachers {
			data.Teachers = append(data.Teachers, person{
				Name:           t.Name,
				Qualifications: t.Qualifications.String(),
				Subject:        t.Subject,
				PhotoURL:       h.API.ImageURL(t.Photo),
			})
		}
	}

	if teams, err := resources.Teams.Public(h.API).List(ctx); h.ok(err, "teams") {
		for _, t := range teams {
			data.Teams = append(data.Teams, slide{
				Title:    t.Title,
				ImageURL: h.API.ImageURL(t.Image),
			})
		}
	}

	data.Scroll = h.activeScroll(ctx)
	return data
}

func (h *Handler) activeScroll(ctx context.Context) []string {
	items, err := resources.Scroll.Public(h.API).List(ctx)
	if !h.ok(err, "scroll") {
		return nil
	}
	var out []string
	for _, s := range items {
		if s.IsActive() {
			out = append(out, s.Content)
		}
	}
	return out
}

func (h *Handler) ok(err error, section string) bool {
	if err != nil {
		h.Log.Warn("home section unavailable", zap.String("section", section), zap.Error(err))
		return false
	}
	return true
}
