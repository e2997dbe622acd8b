// Package ui is jobfill's HTTP surface, the popup and options page of
// the browser-extension original. It talks to the coordinator over the
// bus and renders what comes back; it never reaches an inspector or the
// store directly.
package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hazyhaar/jobfill/bridge"
	"github.com/hazyhaar/jobfill/coordinator"
	"github.com/hazyhaar/jobfill/profile"
)

// requestTimeout bounds every bus round trip. An inspector that died
// mid-request never answers; the deadline is this caller's policy.
const requestTimeout = 10 * time.Second

// Server is the HTTP surface.
type Server struct {
	conn   *bridge.Conn
	coord  *coordinator.Coordinator
	logger *slog.Logger
}

// New creates a Server speaking to the coordinator through bus.
func New(bus *bridge.Bus, coord *coordinator.Coordinator, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		conn:   bus.Conn("ui"),
		coord:  coord,
		logger: logger,
	}
}

// Routes builds the HTTP router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/profile", s.getProfile)
		r.Put("/profile", s.putProfile)
		r.Post("/profile/import", s.importProfile)
		r.Get("/profile/export", s.exportProfile)

		r.Get("/sites", s.listSites)
		r.Get("/sites/{domain}", s.getSite)
		r.Put("/sites/{domain}", s.putSite)

		r.Post("/detect", s.detect)
		r.Post("/autofill", s.autofill)
		r.Get("/formdata", s.formData)
		r.Get("/reports", s.reports)
		r.Get("/preview", s.preview)

		r.Post("/resume", s.uploadResume)
		r.Get("/resume", s.getResume)
	})

	return r
}

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	resp, err := s.conn.Call(r.Context(), coordinator.Name, bridge.KindGetUserProfile, nil)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeResponse(w, resp)
}

func (s *Server) putProfile(w http.ResponseWriter, r *http.Request) {
	var p profile.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	resp, err := s.conn.Call(r.Context(), coordinator.Name, bridge.KindUpdateUserProfile,
		bridge.UpdateProfileRequest{Profile: p})
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeResponse(w, resp)
}

// importProfile replaces the profile from a plain-text body of
// "Key: Value" lines. A parse miss is user-facing: nothing partial is
// applied because ParseText builds the whole profile before we store it.
func (s *Server) importProfile(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if len(body) == 0 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("empty import text"))
		return
	}

	p := profile.ParseText(string(body))
	resp, err := s.conn.Call(r.Context(), coordinator.Name, bridge.KindUpdateUserProfile,
		bridge.UpdateProfileRequest{Profile: *p})
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	if !resp.Success {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("%s", resp.Error))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) exportProfile(w http.ResponseWriter, r *http.Request) {
	resp, err := s.conn.Call(r.Context(), coordinator.Name, bridge.KindGetUserProfile, nil)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	if !resp.Success {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("%s", resp.Error))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="jobfill-profile.json"`)
	w.WriteHeader(http.StatusOK)
	w.Write(resp.Payload)
}

func (s *Server) listSites(w http.ResponseWriter, r *http.Request) {
	configs, err := s.coord.SiteConfigs(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, configs)
}

func (s *Server) getSite(w http.ResponseWriter, r *http.Request) {
	domain := chi.URLParam(r, "domain")
	resp, err := s.conn.Call(r.Context(), coordinator.Name, bridge.KindGetSiteConfig,
		bridge.SiteConfigRequest{Domain: domain})
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	if !resp.Success {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("%s", resp.Error))
		return
	}
	if len(resp.Payload) == 0 || string(resp.Payload) == "null" {
		writeError(w, http.StatusNotFound, fmt.Errorf("no config for %s", domain))
		return
	}
	writeJSON(w, http.StatusOK, json.RawMessage(resp.Payload))
}

func (s *Server) putSite(w http.ResponseWriter, r *http.Request) {
	var sc profile.SiteConfig
	if err := json.NewDecoder(r.Body).Decode(&sc); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	sc.Domain = chi.URLParam(r, "domain")
	resp, err := s.conn.Call(r.Context(), coordinator.Name, bridge.KindUpdateSiteConfig,
		bridge.UpdateSiteConfigRequest{Config: sc})
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeResponse(w, resp)
}

func (s *Server) detect(w http.ResponseWriter, r *http.Request) {
	page := r.URL.Query().Get("page")
	resp, err := s.conn.Call(r.Context(), coordinator.Name, bridge.KindDetectForms,
		bridge.PageRequest{Page: page})
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeResponse(w, resp)
}

// autofill is the popup button: load the profile, flatten it to
// canonical values, send AUTOFILL_FORM.
func (s *Server) autofill(w http.ResponseWriter, r *http.Request) {
	page := r.URL.Query().Get("page")

	resp, err := s.conn.Call(r.Context(), coordinator.Name, bridge.KindGetUserProfile, nil)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	var p profile.UserProfile
	if err := resp.Decode(&p); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	fillResp, err := s.conn.Call(r.Context(), coordinator.Name, bridge.KindAutofillForm,
		bridge.AutofillRequest{Page: page, Values: p.FormValues()})
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeResponse(w, fillResp)
}

func (s *Server) formData(w http.ResponseWriter, r *http.Request) {
	page := r.URL.Query().Get("page")
	resp, err := s.conn.Call(r.Context(), coordinator.Name, bridge.KindGetFormData,
		bridge.PageRequest{Page: page})
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeResponse(w, resp)
}

// reports serves the coordinator's latest detection state. A push
// notification and a pull response can race; both render the same
// idempotent state, so order does not matter.
func (s *Server) reports(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.coord.Reports())
}

func (s *Server) uploadResume(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(16 << 20); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	f, hdr, err := r.FormFile("resume")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	info, err := s.coord.StoreResume(r.Context(), hdr.Filename, data)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) getResume(w http.ResponseWriter, r *http.Request) {
	res, err := s.coord.Resume(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if res == nil {
		writeError(w, http.StatusNotFound, fmt.Errorf("no resume uploaded"))
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Filename))
	w.WriteHeader(http.StatusOK)
	w.Write(res.Data)
}

// writeResponse maps a bus response onto HTTP: success payload straight
// through, failure as a 500 with the message.
func writeResponse(w http.ResponseWriter, resp bridge.Response) {
	if !resp.Success {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("%s", resp.Error))
		return
	}
	if len(resp.Payload) == 0 {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
		return
	}
	writeJSON(w, http.StatusOK, json.RawMessage(resp.Payload))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
