package v1

import (
    "net/http"
)

func (s *Server) getDemo(w http.ResponseWriter, r *http.Request) {
    st, err := s.demo.Status(r.Context())
    if err != nil { s.writeServiceErr(w, r, err); return }
    toJSON(w, http.StatusOK, st)
}

func (s *Server) enableDemo(w http.ResponseWriter, r *http.Request) {
    st, err := s.demo.Enable(r.Context())
    if err != nil { s.writeServiceErr(w, r, err); return }
    toJSON(w, http.StatusOK, st)
}

func (s *Server) disableDemo(w http.ResponseWriter, r *http.Request) {
    if err := s.demo.Disable(r.Context()); err != nil { s.writeServiceErr(w, r, err); return }
    w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getAppLock(w http.ResponseWriter, r *http.Request) {
    st, err := s.lock.Status(r.Context())
    if err != nil { s.writeServiceErr(w, r, err); return }
    toJSON(w, http.StatusOK, st)
}

func (s *Server) patchAppLock(w http.ResponseWriter, r *http.Request) {
    var req appLockRequest
    if !decodeJSON(w, r, &req) { return }
    if err := s.lock.SetEnabled(r.Context(), *req.Enabled); err != nil { s.writeServiceErr(w, r, err); return }
    s.getAppLock(w, r)
}

// putPIN sets the first PIN, or changes it when currentPin matches.
func (s *Server) putPIN(w http.ResponseWriter, r *http.Request) {
    var req pinRequest
    if !decodeJSON(w, r, &req) { return }
    if err := s.lock.SetPIN(r.Context(), req.CurrentPIN, req.PIN); err != nil { s.writeServiceErr(w, r, err); return }
    w.WriteHeader(http.StatusNoContent)
}

func (s *Server) forgetPIN(w http.ResponseWriter, r *http.Request) {
    if err := s.lock.Forget(r.Context()); err != nil { s.writeServiceErr(w, r, err); return }
    w.WriteHeader(http.StatusNoContent)
}

func (s *Server) verifyPIN(w http.ResponseWriter, r *http.Request) {
    var req verifyPINRequest
    if !decodeJSON(w, r, &req) { return }
    if err := s.lock.Verify(r.Context(), req.PIN); err != nil { s.writeServiceErr(w, r, err); return }
    w.WriteHeader(http.StatusNoContent)
}
