package v1

import (
    "net/http"

    "github.com/tinoosan/fintrack/internal/ledger"
)

func (s *Server) listAccounts(w http.ResponseWriter, r *http.Request) {
    list, err := s.accounts.List(r.Context())
    if err != nil { s.writeServiceErr(w, r, err); return }
    out := make([]accountResponse, 0, len(list))
    for _, a := range list { out = append(out, toAccountResponse(a)) }
    toJSON(w, http.StatusOK, listResponse[accountResponse]{Items: out})
}

func (s *Server) postAccount(w http.ResponseWriter, r *http.Request) {
    a, ok := r.Context().Value(ctxKeyAccount).(ledger.Account)
    if !ok { badRequest(w, "missing validated request"); return }
    created, err := s.accounts.Create(r.Context(), a)
    if err != nil { s.writeServiceErr(w, r, err); return }
    toJSON(w, http.StatusCreated, toAccountResponse(created))
}

func (s *Server) getAccount(w http.ResponseWriter, r *http.Request) {
    id, ok := pathID(w, r)
    if !ok { return }
    a, err := s.accounts.Get(r.Context(), id)
    if err != nil { s.writeServiceErr(w, r, err); return }
    toJSON(w, http.StatusOK, toAccountResponse(a))
}

// PUT /v1/accounts/{id}. A rename keeps the id, so the balance follows the account.
func (s *Server) putAccount(w http.ResponseWriter, r *http.Request) {
    id, ok := pathID(w, r)
    if !ok { return }
    a, ok := r.Context().Value(ctxKeyAccount).(ledger.Account)
    if !ok { badRequest(w, "missing validated request"); return }
    a.ID = id
    updated, err := s.accounts.Update(r.Context(), a)
    if err != nil { s.writeServiceErr(w, r, err); return }
    toJSON(w, http.StatusOK, toAccountResponse(updated))
}

// DELETE /v1/accounts/{id}. Transactions that reference the account are left as they are.
func (s *Server) deleteAccount(w http.ResponseWriter, r *http.Request) {
    id, ok := pathID(w, r)
    if !ok { return }
    if err := s.accounts.Delete(r.Context(), id); err != nil { s.writeServiceErr(w, r, err); return }
    w.WriteHeader(http.StatusNoContent)
}

// GET /v1/accounts/{id}/balance
func (s *Server) getAccountBalance(w http.ResponseWriter, r *http.Request) {
    id, ok := pathID(w, r)
    if !ok { return }
    a, err := s.accounts.Get(r.Context(), id)
    if err != nil { s.writeServiceErr(w, r, err); return }
    bal, err := s.balances.Balance(r.Context(), id)
    if err != nil { s.writeServiceErr(w, r, err); return }
    toJSON(w, http.StatusOK, accountBalanceResponse{AccountID: a.ID, Name: a.Name, Balance: bal})
}

// GET /v1/accounts/balances lists every account with its derived balance.
func (s *Server) listAccountBalances(w http.ResponseWriter, r *http.Request) {
    rows, err := s.balances.Balances(r.Context())
    if err != nil { s.writeServiceErr(w, r, err); return }
    out := make([]accountBalanceResponse, 0, len(rows))
    for _, row := range rows {
        out = append(out, accountBalanceResponse{AccountID: row.Account.ID, Name: row.Account.Name, Balance: row.Balance})
    }
    toJSON(w, http.StatusOK, listResponse[accountBalanceResponse]{Items: out})
}
