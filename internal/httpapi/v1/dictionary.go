package v1

import (
	"net/http"
	"strings"

	"github.com/tinoosan/fintrack/internal/dictionary"
	"github.com/tinoosan/fintrack/internal/ledger"
)

// GET /v1/dictionary/categories?type=
func (s *Server) getCategoryDictionary(w http.ResponseWriter, r *http.Request) {
	t := ledger.TransactionType(strings.ToLower(r.URL.Query().Get("type")))
	out := listResponse[dictionary.CategoryDef]{Items: []dictionary.CategoryDef{}}
	for _, def := range dictionary.Categories() {
		if t != "" && t != "all" && !def.Type.Applies(t) {
			continue
		}
		out.Items = append(out.Items, def)
	}
	toJSON(w, http.StatusOK, out)
}

// GET /v1/dictionary/payment-methods
func (s *Server) getPaymentMethodDictionary(w http.ResponseWriter, r *http.Request) {
	toJSON(w, http.StatusOK, listResponse[dictionary.PaymentMethodDef]{Items: dictionary.PaymentMethods()})
}
