package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/gommon/log"
	"github.com/radhian/ledger-engine/usecase/ledger"
)

type LedgerHandler struct {
	Usecase ledger.LedgerUsecase
}

func NewLedgerHandler(uc ledger.LedgerUsecase) *LedgerHandler {
	return &LedgerHandler{Usecase: uc}
}

type APIResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func writeSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(APIResponse{
		Status: "success",
		Data:   data,
	})
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(APIResponse{
		Status:  "error",
		Message: message,
	})
}

// writeError maps engine errors to a status. Internal errors are logged and
// never echoed to the client.
func writeError(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Errorf("[Handler] %s: %v", op, err)
		writeFailure(w, status, "Failed to "+op)
		return
	}
	log.Debugf("[Handler] %s rejected: %v", op, err)
	writeFailure(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ledger.ErrInvalidTransaction),
		errors.Is(err, ledger.ErrInvalidAccount),
		errors.Is(err, ledger.ErrUnknownTransactionType),
		errors.Is(err, ledger.ErrPreconditionFailed),
		errors.Is(err, ledger.ErrNotValuationAccount):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrAccountNotFound),
		errors.Is(err, ledger.ErrTransactionNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrConcurrencyConflict),
		errors.Is(err, ledger.ErrDuplicateTransaction),
		errors.Is(err, ledger.ErrReconciliationInProgress):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrProtectedTransaction):
		return http.StatusLocked
	case errors.Is(err, ledger.ErrReconciliationThrottled):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
