package v1

import (
    "encoding/json"
    "net/http"

    chi "github.com/go-chi/chi/v5"
    "github.com/tinoosan/fintrack/internal/meta"
)

func (s *Server) getSettings(w http.ResponseWriter, r *http.Request) {
    all, err := s.settings.Get(r.Context())
    if err != nil { s.writeServiceErr(w, r, err); return }
    toJSON(w, http.StatusOK, all)
}

// PATCH /v1/settings merges the given keys. Nothing is written unless every pair is valid.
func (s *Server) patchSettings(w http.ResponseWriter, r *http.Request) {
    if !requireJSON(w, r) { return }
    var body map[string]string
    if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
        badRequest(w, "invalid JSON: "+err.Error())
        return
    }
    if err := s.settings.SetMany(r.Context(), meta.New(body)); err != nil { s.writeServiceErr(w, r, err); return }
    s.getSettings(w, r)
}

// PUT /v1/settings/{key}
func (s *Server) putSetting(w http.ResponseWriter, r *http.Request) {
    var req settingRequest
    if !decodeJSON(w, r, &req) { return }
    if err := s.settings.Set(r.Context(), chi.URLParam(r, "key"), req.Value); err != nil {
        s.writeServiceErr(w, r, err)
        return
    }
    s.getSettings(w, r)
}
