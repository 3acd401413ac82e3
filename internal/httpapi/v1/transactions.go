package v1

import (
    "net/http"
    "strconv"

    chi "github.com/go-chi/chi/v5"
    "github.com/google/uuid"
    "github.com/tinoosan/fintrack/internal/service/report"
    "github.com/tinoosan/fintrack/internal/service/transaction"
)

const maxRecent = 50

// pathID parses the {id} URL parameter, writing 400 when it is not a UUID.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
    id, err := uuid.Parse(chi.URLParam(r, "id"))
    if err != nil { badRequest(w, "invalid id"); return uuid.Nil, false }
    return id, true
}

// GET /v1/transactions?type=&q=&sort=
func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
    q, _ := r.Context().Value(ctxKeyListTransactions).(transaction.Query)
    list, err := s.txs.List(r.Context(), q)
    if err != nil { s.writeServiceErr(w, r, err); return }
    toJSON(w, http.StatusOK, listResponse[transactionResponse]{Items: toTransactionResponses(list)})
}

// GET /v1/transactions/recent?limit=
func (s *Server) recentTransactions(w http.ResponseWriter, r *http.Request) {
    limit := report.RecentLimit
    if raw := r.URL.Query().Get("limit"); raw != "" {
        n, err := strconv.Atoi(raw)
        if err != nil || n < 1 || n > maxRecent { badRequest(w, "limit must be between 1 and 50"); return }
        limit = n
    }
    list, err := s.txs.Recent(r.Context(), limit)
    if err != nil { s.writeServiceErr(w, r, err); return }
    toJSON(w, http.StatusOK, listResponse[transactionResponse]{Items: toTransactionResponses(list)})
}

func (s *Server) postTransaction(w http.ResponseWriter, r *http.Request) {
    d, ok := r.Context().Value(ctxKeyTransaction).(transaction.Draft)
    if !ok { badRequest(w, "missing validated request"); return }
    t, err := s.txs.Submit(r.Context(), d, uuid.Nil)
    if err != nil { s.writeServiceErr(w, r, err); return }
    toJSON(w, http.StatusCreated, toTransactionResponse(t))
}

func (s *Server) getTransaction(w http.ResponseWriter, r *http.Request) {
    id, ok := pathID(w, r)
    if !ok { return }
    t, err := s.txs.Get(r.Context(), id)
    if err != nil { s.writeServiceErr(w, r, err); return }
    toJSON(w, http.StatusOK, toTransactionResponse(t))
}

// PUT /v1/transactions/{id} replaces the record in full; the id and createdAt are kept.
func (s *Server) putTransaction(w http.ResponseWriter, r *http.Request) {
    id, ok := pathID(w, r)
    if !ok { return }
    d, ok := r.Context().Value(ctxKeyTransaction).(transaction.Draft)
    if !ok { badRequest(w, "missing validated request"); return }
    t, err := s.txs.Submit(r.Context(), d, id)
    if err != nil { s.writeServiceErr(w, r, err); return }
    toJSON(w, http.StatusOK, toTransactionResponse(t))
}

func (s *Server) deleteTransaction(w http.ResponseWriter, r *http.Request) {
    id, ok := pathID(w, r)
    if !ok { return }
    if err := s.txs.Delete(r.Context(), id); err != nil { s.writeServiceErr(w, r, err); return }
    w.WriteHeader(http.StatusNoContent)
}
