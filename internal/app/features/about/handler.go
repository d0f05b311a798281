// internal/app/features/about/handler.go
package about

import (
	"context"
	"html/template"
	"net/http"

	uierrors "github.com/dalemusser/institutehub/internal/app/features/errors"
	"github.com/dalemusser/institutehub/internal/app/resources"
	"github.com/dalemusser/institutehub/internal/app/system/apiclient"
	"github.com/dalemusser/institutehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/institutehub/internal/app/system/timeouts"
	"github.com/dalemusser/institutehub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type content struct {
	Heading            string
	Description        template.HTML
	VisionTitle        string
	VisionDescription  template.HTML
	MissionTitle       string
	MissionDescription template.HTML
	Quote              string
	TopBannerURL       string
	Image1URL          string
	Image2URL          string
}

type pageData struct {
	viewdata.BaseVM
	About *content // nil until an admin saves the page
}

type Handler struct {
	API    *apiclient.Transport
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

func NewHandler(api *apiclient.Transport, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{API: api, ErrLog: errLog, Log: logger}
}

// ServeAbout renders GET /about.
func (h *Handler) ServeAbout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.API(), h.Log, "about page")
	defer cancel()

	c, title, err := h.load(ctx)
	if err != nil {
		h.ErrLog.LogAPIError(w, r, "about page load failed", err, "/")
		return
	}
	templates.Render(w, r, "about", pageData{
		BaseVM: viewdata.NewBaseVM(r, title, "/"),
		About:  c,
	})
}

func (h *Handler) load(ctx context.Context) (*content, string, error) {
	items, err := resources.About.Public(h.API).List(ctx)
	if err != nil {
		return nil, "", err
	}
	if len(items) == 0 {
		return nil, "About", nil
	}
	a := items[0]
	title := a.Title
	if title == "" {
		title = "About"
	}
	return &content{
		Heading:            a.Heading,
		Description:        htmlsanitize.PrepareForDisplay(a.Description),
		VisionTitle:        a.VisionTitle,
		VisionDescription:  htmlsanitize.PrepareForDisplay(a.VisionDescription),
		MissionTitle:       a.MissionTitle,
		MissionDescription: htmlsanitize.PrepareForDisplay(a.MissionDescription),
		Quote:              a.Quote,
		TopBannerURL:       h.API.ImageURL(a.TopBanner),
		Image1URL:          h.API.ImageURL(a.Image1),
		Image2URL:          h.API.ImageURL(a.Image2),
	}, title, nil
}
