package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/radhian/ledger-engine/entity"
	"github.com/radhian/ledger-engine/middlewares"
)

func (h *LedgerHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req entity.NewAccount
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := h.Usecase.CreateAccount(r.Context(), middlewares.OwnerFromContext(r.Context()), req)
	if err != nil {
		writeError(w, "create account", err)
		return
	}
	writeSuccess(w, http.StatusCreated, res)
}

func (h *LedgerHandler) SetAccountBalance(w http.ResponseWriter, r *http.Request) {
	var req SetBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Balance == nil {
		writeFailure(w, http.StatusBadRequest, "balance is required")
		return
	}

	var date time.Time
	if req.Date != nil {
		date = *req.Date
	}

	acc, err := h.Usecase.SetAccountBalance(r.Context(), middlewares.OwnerFromContext(r.Context()), mux.Vars(r)["id"], *req.Balance, date)
	if err != nil {
		writeError(w, "set balance", err)
		return
	}
	writeSuccess(w, http.StatusOK, acc)
}

func (h *LedgerHandler) SyncValuation(w http.ResponseWriter, r *http.Request) {
	acc, err := h.Usecase.SyncHoldingsValuation(r.Context(), middlewares.OwnerFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, "sync valuation", err)
		return
	}
	writeSuccess(w, http.StatusOK, acc)
}

func (h *LedgerHandler) GetAccountHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, to, err := parseDateRange(q.Get("from"), q.Get("to"))
	if err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}

	history, err := h.Usecase.GetAccountHistory(r.Context(), middlewares.OwnerFromContext(r.Context()), mux.Vars(r)["id"], from, to)
	if err != nil {
		writeError(w, "get history", err)
		return
	}
	writeSuccess(w, http.StatusOK, history)
}
