package v1

import (
    "context"
    "fmt"
    "net/http"
    "strings"

    "github.com/tinoosan/fintrack/internal/errs"
    "github.com/tinoosan/fintrack/internal/ledger"
    "github.com/tinoosan/fintrack/internal/service/transaction"
)

type ctxKey string

const ctxKeyTransaction ctxKey = "validatedTransaction"
const ctxKeyListTransactions ctxKey = "validatedListTransactions"
const ctxKeyAccount ctxKey = "validatedAccount"
const ctxKeyCategory ctxKey = "validatedCategory"

// validateTransaction decodes the create/edit form and stores the draft in the
// request context. Business rules run later in the editor.
func (s *Server) validateTransaction() func(http.Handler) http.Handler {
    return func(next http.Handler) http.Handler {
        return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
            var req transactionRequest
            if !decodeJSON(w, r, &req) { return }
            ctx := context.WithValue(r.Context(), ctxKeyTransaction, req.draft())
            next.ServeHTTP(w, r.WithContext(ctx))
        })
    }
}

// validateListTransactions parses type, q and sort for GET /v1/transactions.
func (s *Server) validateListTransactions() func(http.Handler) http.Handler {
    return func(next http.Handler) http.Handler {
        return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
            q := r.URL.Query()
            query := transaction.Query{Search: q.Get("q"), Sort: strings.ToLower(q.Get("sort"))}
            if t := strings.ToLower(q.Get("type")); t != "" && t != "all" {
                query.Type = ledger.TransactionType(t)
                if !query.Type.Valid() { badRequest(w, "invalid type"); return }
            }
            if !transaction.ValidSort(query.Sort) { badRequest(w, "invalid sort"); return }
            ctx := context.WithValue(r.Context(), ctxKeyListTransactions, query)
            next.ServeHTTP(w, r.WithContext(ctx))
        })
    }
}

func (s *Server) validateAccount() func(http.Handler) http.Handler {
    return func(next http.Handler) http.Handler {
        return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
            var req accountRequest
            if !decodeJSON(w, r, &req) { return }
            a := ledger.Account{Name: req.Name, Icon: req.Icon, Color: req.Color}
            if err := s.accounts.ValidateCreate(a); err != nil { s.writeServiceErr(w, r, err); return }
            ctx := context.WithValue(r.Context(), ctxKeyAccount, a)
            next.ServeHTTP(w, r.WithContext(ctx))
        })
    }
}

func (s *Server) validateCategory() func(http.Handler) http.Handler {
    return func(next http.Handler) http.Handler {
        return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
            var req categoryRequest
            if !decodeJSON(w, r, &req) { return }
            ctx := context.WithValue(r.Context(), ctxKeyCategory, req)
            next.ServeHTTP(w, r.WithContext(ctx))
        })
    }
}

// liveOnly refuses writes to the user's data while demo mode is on.
func (s *Server) liveOnly(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if s.demo != nil {
            active, err := s.demo.Active(r.Context())
            if err != nil { s.writeServiceErr(w, r, err); return }
            if active {
                s.writeServiceErr(w, r, fmt.Errorf("disable demo mode to change transactions: %w", errs.ErrDemoActive))
                return
            }
        }
        next.ServeHTTP(w, r)
    })
}
