package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/radhian/ledger-engine/middlewares"
)

// RecalculateAccountBalance previews by default; dry_run=false applies.
func (h *LedgerHandler) RecalculateAccountBalance(w http.ResponseWriter, r *http.Request) {
	dryRun := true
	if v := r.URL.Query().Get("dry_run"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			writeFailure(w, http.StatusBadRequest, "dry_run must be a boolean")
			return
		}
		dryRun = parsed
	}

	res, err := h.Usecase.RecalculateAccountBalance(r.Context(), middlewares.OwnerFromContext(r.Context()), mux.Vars(r)["id"], dryRun)
	if err != nil {
		writeError(w, "recalculate balance", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}
