package v1

import (
    "net/http"
    "strings"

    "github.com/tinoosan/fintrack/internal/service/report"
)

type summaryResponse struct {
    report.Summary
    Recent []transactionResponse `json:"recent"`
}

type balanceLineResponse struct {
    accountResponse
    report.BalanceLine
}

func (s *Server) getSummary(w http.ResponseWriter, r *http.Request) {
    sum, err := s.reports.Summary(r.Context(), s.now())
    if err != nil { s.writeServiceErr(w, r, err); return }
    toJSON(w, http.StatusOK, summaryResponse{Summary: sum, Recent: toTransactionResponses(sum.Recent)})
}

func (s *Server) getBudget(w http.ResponseWriter, r *http.Request) {
    b, err := s.reports.Budget(r.Context(), s.now())
    if err != nil { s.writeServiceErr(w, r, err); return }
    toJSON(w, http.StatusOK, b)
}

// GET /v1/reports/analysis?period=week|month|year (default month)
func (s *Server) getAnalysis(w http.ResponseWriter, r *http.Request) {
    period := strings.ToLower(r.URL.Query().Get("period"))
    if period == "" { period = report.PeriodMonth }
    if !report.ValidPeriod(period) { badRequest(w, "period must be week, month or year"); return }
    a, err := s.reports.Analysis(r.Context(), period, s.now())
    if err != nil { s.writeServiceErr(w, r, err); return }
    toJSON(w, http.StatusOK, a)
}

func (s *Server) getInsights(w http.ResponseWriter, r *http.Request) {
    list, err := s.reports.Insights(r.Context(), s.now())
    if err != nil { s.writeServiceErr(w, r, err); return }
    if list == nil { list = []report.Insight{} }
    toJSON(w, http.StatusOK, listResponse[report.Insight]{Items: list})
}

// GET /v1/reports/balances reports every account in the settings currency.
func (s *Server) getBalancesReport(w http.ResponseWriter, r *http.Request) {
    lines, err := s.reports.Balances(r.Context())
    if err != nil { s.writeServiceErr(w, r, err); return }
    out := make([]balanceLineResponse, 0, len(lines))
    for _, l := range lines {
        out = append(out, balanceLineResponse{accountResponse: toAccountResponse(l.Account), BalanceLine: l})
    }
    toJSON(w, http.StatusOK, listResponse[balanceLineResponse]{Items: out})
}
