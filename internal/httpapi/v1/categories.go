package v1

import (
    "net/http"
    "strings"

    "github.com/google/uuid"
    "github.com/tinoosan/fintrack/internal/ledger"
)

// GET /v1/categories?type=income|expense. A type filter also returns "both" categories.
func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
    t := ledger.TransactionType(strings.ToLower(r.URL.Query().Get("type")))
    if t != "" && t != "all" && !t.Valid() { badRequest(w, "invalid type"); return }
    list, err := s.cats.List(r.Context(), t)
    if err != nil { s.writeServiceErr(w, r, err); return }
    out := make([]categoryResponse, 0, len(list))
    for _, c := range list { out = append(out, toCategoryResponse(c)) }
    toJSON(w, http.StatusOK, listResponse[categoryResponse]{Items: out})
}

func (s *Server) postCategory(w http.ResponseWriter, r *http.Request) {
    req, ok := r.Context().Value(ctxKeyCategory).(categoryRequest)
    if !ok { badRequest(w, "missing validated request"); return }
    c, err := s.cats.Create(r.Context(), req.category(uuid.Nil))
    if err != nil { s.writeServiceErr(w, r, err); return }
    toJSON(w, http.StatusCreated, toCategoryResponse(c))
}

func (s *Server) getCategory(w http.ResponseWriter, r *http.Request) {
    id, ok := pathID(w, r)
    if !ok { return }
    c, err := s.cats.Get(r.Context(), id)
    if err != nil { s.writeServiceErr(w, r, err); return }
    toJSON(w, http.StatusOK, toCategoryResponse(c))
}

func (s *Server) putCategory(w http.ResponseWriter, r *http.Request) {
    id, ok := pathID(w, r)
    if !ok { return }
    req, ok := r.Context().Value(ctxKeyCategory).(categoryRequest)
    if !ok { badRequest(w, "missing validated request"); return }
    c, err := s.cats.Update(r.Context(), req.category(id))
    if err != nil { s.writeServiceErr(w, r, err); return }
    toJSON(w, http.StatusOK, toCategoryResponse(c))
}

// DELETE /v1/categories/{id}. Transactions keep the category name they were written with.
func (s *Server) deleteCategory(w http.ResponseWriter, r *http.Request) {
    id, ok := pathID(w, r)
    if !ok { return }
    if err := s.cats.Delete(r.Context(), id); err != nil { s.writeServiceErr(w, r, err); return }
    w.WriteHeader(http.StatusNoContent)
}
