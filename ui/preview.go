package ui

import (
	"fmt"
	"net/http"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/microcosm-cc/bluemonday"

	"github.com/hazyhaar/jobfill/bridge"
	"github.com/hazyhaar/jobfill/coordinator"
)

// sanitizer strips scripts, handlers and everything else a host page
// could smuggle into captured form HTML before it reaches a renderer.
var sanitizer = bluemonday.UGCPolicy()

var mdConverter = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
	),
)

// FormPreview is one form rendered for the overlay: sanitized HTML plus
// a markdown rendition of its visible text.
type FormPreview struct {
	Identity string `json:"identity"`
	HTML     string `json:"html"`
	Markdown string `json:"markdown"`
}

// preview returns the detected forms of a page rendered for display.
func (s *Server) preview(w http.ResponseWriter, r *http.Request) {
	page := r.URL.Query().Get("page")
	resp, err := s.conn.Call(r.Context(), coordinator.Name, bridge.KindGetFormData,
		bridge.PageRequest{Page: page})
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	var report bridge.DetectionReport
	if err := resp.Decode(&report); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	previews := make([]FormPreview, 0, len(report.Forms))
	for _, f := range report.Forms {
		p, err := renderPreview(f)
		if err != nil {
			// One unrenderable form must not hide the rest.
			s.logger.Warn("ui: preview render failed",
				"form", f.Identity, "error", err)
			continue
		}
		previews = append(previews, p)
	}
	writeJSON(w, http.StatusOK, previews)
}

func renderPreview(f bridge.FormReport) (FormPreview, error) {
	if f.HTML == "" {
		return FormPreview{}, fmt.Errorf("form %s: no captured HTML", f.Identity)
	}
	clean := sanitizer.Sanitize(f.HTML)
	md, err := mdConverter.ConvertString(clean)
	if err != nil {
		return FormPreview{}, fmt.Errorf("form %s: convert: %w", f.Identity, err)
	}
	return FormPreview{Identity: f.Identity, HTML: clean, Markdown: md}, nil
}
