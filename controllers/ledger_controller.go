package controllers

import (
	"github.com/gorilla/mux"
	"github.com/radhian/ledger-engine/handler"
)

func RegisterLedgerRoutes(router *mux.Router, h *handler.LedgerHandler) {
	router.HandleFunc("/accounts", h.CreateAccount).Methods("POST")
	router.HandleFunc("/accounts/{id}/recalculate", h.RecalculateAccountBalance).Methods("POST")
	router.HandleFunc("/accounts/{id}/valuation", h.SyncValuation).Methods("POST")
	router.HandleFunc("/accounts/{id}/balance", h.SetAccountBalance).Methods("PUT")
	router.HandleFunc("/accounts/{id}/history", h.GetAccountHistory).Methods("GET")

	router.HandleFunc("/transactions", h.CreateTransaction).Methods("POST")
	router.HandleFunc("/transactions/bulk", h.CreateTransactions).Methods("POST")
	router.HandleFunc("/transactions/{id}", h.GetTransaction).Methods("GET")
	router.HandleFunc("/transactions/{id}", h.UpdateTransaction).Methods("PUT")
	router.HandleFunc("/transactions/{id}", h.DeleteTransaction).Methods("DELETE")
}
