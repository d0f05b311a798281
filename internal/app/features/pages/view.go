// internal/app/features/pages/view.go
package pages

import (
	"context"
	"html/template"
	"net/http"
	"slices"

	"github.com/dalemusser/institutehub/internal/app/resources"
	"github.com/dalemusser/institutehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/institutehub/internal/app/system/timeouts"
	"github.com/dalemusser/institutehub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
)

type card struct {
	Heading     string
	Subheading  string
	Description template.HTML
	ImageURL    string
}

type highlight struct {
	Title       string
	Description template.HTML
}

type content struct {
	Heading   string
	BannerURL string
	Cards     []card
	Features  []highlight
	Grid      bool // image grid instead of cards
}

type pageData struct {
	viewdata.BaseVM
	content
}

type loader func(ctx context.Context) (content, error)

// serve loads a page's content and renders it, or reports the API failure.
func (h *Handler) serve(w http.ResponseWriter, r *http.Request, title string, load loader) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.API(), h.Log, title+" page")
	defer cancel()

	c, err := load(ctx)
	if err != nil {
		h.ErrLog.LogAPIError(w, r, title+" page load failed", err, "/")
		return
	}
	if c.Heading == "" {
		c.Heading = title
	}
	templates.Render(w, r, "pages_content", pageData{
		BaseVM:  viewdata.NewBaseVM(r, c.Heading, "/"),
		content: c,
	})
}

func (h *Handler) ServeCourses(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "Our Courses", h.courses)
}

func (h *Handler) ServeServices(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "Services & Features", h.services)
}

func (h *Handler) ServeFocus(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "Our Focus", h.focus)
}

func (h *Handler) ServeGallery(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "Gallery", h.gallery)
}

func (h *Handler) ServeResults(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "Results", h.results)
}

func (h *Handler) courses(ctx context.Context) (content, error) {
	items, err := resources.Courses.Public(h.API).List(ctx)
	if err != nil {
		return content{}, err
	}
	var c content
	for _, it := range items {
		c.Cards = append(c.Cards, card{
			Heading:     it.Heading,
			Subheading:  it.Subheading,
			Description: htmlsanitize.PrepareForDisplay(it.Description),
			ImageURL:    h.API.ImageURL(it.Image),
		})
	}
	return c, nil
}

func (h *Handler) services(ctx context.Context) (content, error) {
	svcs, err := resources.Services.Public(h.API).List(ctx)
	if err != nil {
		return content{}, err
	}
	feats, err := resources.Features.Public(h.API).List(ctx)
	if err != nil {
		return content{}, err
	}
	var c content
	for _, s := range svcs {
		c.Cards = append(c.Cards, card{
			Heading:     s.Title,
			Description: htmlsanitize.PrepareForDisplay(s.Description),
			ImageURL:    h.API.ImageURL(s.Image),
		})
	}
	for _, f := range feats {
		c.Features = append(c.Features, highlight{
			Title:       f.Title,
			Description: htmlsanitize.PrepareForDisplay(f.Description),
		})
	}
	return c, nil
}

func (h *Handler) focus(ctx context.Context) (content, error) {
	meta, err := resources.FocusMeta.Public(h.API).List(ctx)
	if err != nil {
		return content{}, err
	}
	items, err := resources.FocusItems.Public(h.API).List(ctx)
	if err != nil {
		return content{}, err
	}
	var c content
	if len(meta) > 0 {
		c.Heading = meta[0].Title
		c.BannerURL = h.API.ImageURL(meta[0].TopBanner)
	}
	for _, it := range items {
		c.Cards = append(c.Cards, card{
			Heading:     it.Heading,
			Subheading:  it.SubHeading,
			Description: htmlsanitize.PrepareForDisplay(it.Description),
			ImageURL:    h.API.ImageURL(it.Image),
		})
	}
	return c, nil
}

func (h *Handler) gallery(ctx context.Context) (content, error) {
	items, err := resources.Gallery.Public(h.API).List(ctx)
	if err != nil {
		return content{}, err
	}
	c := content{Grid: true}
	for _, it := range items {
		c.Cards = append(c.Cards, card{Heading: it.Title, ImageURL: h.API.ImageURL(it.Image)})
	}
	return c, nil
}

// results are shown newest first.
func (h *Handler) results(ctx context.Context) (content, error) {
	items, err := resources.Results.Public(h.API).List(ctx)
	if err != nil {
		return content{}, err
	}
	slices.Reverse(items)
	c := content{Grid: true}
	for _, it := range items {
		c.Cards = append(c.Cards, card{Heading: it.Title, ImageURL: h.API.ImageURL(it.Image)})
	}
	return c, nil
}
