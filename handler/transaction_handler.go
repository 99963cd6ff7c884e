package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/radhian/ledger-engine/entity"
	"github.com/radhian/ledger-engine/middlewares"
)

func (h *LedgerHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var body CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req, err := body.toEntity()
	if err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}

	trx, err := h.Usecase.CreateTransaction(r.Context(), middlewares.OwnerFromContext(r.Context()), req)
	if err != nil {
		writeError(w, "create transaction", err)
		return
	}
	writeSuccess(w, http.StatusCreated, trx)
}

func (h *LedgerHandler) CreateTransactions(w http.ResponseWriter, r *http.Request) {
	var body BulkCreateTransactionsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(body.Transactions) == 0 {
		writeFailure(w, http.StatusBadRequest, "at least one transaction is required")
		return
	}

	reqs := make([]entity.NewTransaction, 0, len(body.Transactions))
	for _, item := range body.Transactions {
		req, err := item.toEntity()
		if err != nil {
			writeFailure(w, http.StatusBadRequest, err.Error())
			return
		}
		reqs = append(reqs, req)
	}

	created, err := h.Usecase.CreateTransactions(r.Context(), middlewares.OwnerFromContext(r.Context()), reqs)
	if err != nil {
		writeError(w, "create transactions", err)
		return
	}
	writeSuccess(w, http.StatusCreated, created)
}

func (h *LedgerHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Usecase.LoadSnapshot(r.Context(), middlewares.OwnerFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, "get transaction", err)
		return
	}
	writeSuccess(w, http.StatusOK, snap.Transaction())
}

// UpdateTransaction reads the stored pre-image itself; HTTP clients never
// supply one.
func (h *LedgerHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var patch entity.TransactionPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx := r.Context()
	owner := middlewares.OwnerFromContext(ctx)
	id := mux.Vars(r)["id"]

	snap, err := h.Usecase.LoadSnapshot(ctx, owner, id)
	if err != nil {
		writeError(w, "update transaction", err)
		return
	}

	trx, err := h.Usecase.UpdateTransaction(ctx, owner, id, patch, snap)
	if err != nil {
		writeError(w, "update transaction", err)
		return
	}
	writeSuccess(w, http.StatusOK, trx)
}

func (h *LedgerHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner := middlewares.OwnerFromContext(ctx)
	id := mux.Vars(r)["id"]

	snap, err := h.Usecase.LoadSnapshot(ctx, owner, id)
	if err != nil {
		writeError(w, "delete transaction", err)
		return
	}

	if err := h.Usecase.DeleteTransaction(ctx, owner, id, snap); err != nil {
		writeError(w, "delete transaction", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]string{"id": id})
}
