package server

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"max.ks1230/expenses-tracker/internal/entity/expense"
	"max.ks1230/expenses-tracker/internal/logger"
	"max.ks1230/expenses-tracker/internal/model/customerr"
	"max.ks1230/expenses-tracker/internal/model/users"
)

type errorResponse struct {
	Error string `json:"error"`
}

type expenseResponse struct {
	ID          int64  `json:"id"`
	Amount      int64  `json:"amount"`
	DateTime    string `json:"dateTime"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Date        string `json:"date"`
	Time        string `json:"time"`
}

func toExpenseResponse(d expense.Details) expenseResponse {
	return expenseResponse{
		ID:          d.ID,
		Amount:      d.Amount,
		DateTime:    d.DateTime,
		Description: d.Description,
		Category:    d.CategoryName,
		Date:        d.Date,
		Time:        d.Time,
	}
}

func toExpenseResponses(details []expense.Details) []expenseResponse {
	res := make([]expenseResponse, 0, len(details))
	for _, d := range details {
		res = append(res, toExpenseResponse(d))
	}
	return res
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("write response", zap.Error(err))
	}
}

// respondError maps domain errors to status codes. Anything unmapped is
// a server fault and gets logged with its cause; the client only sees a
// generic message.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, users.ErrInvalidCredentials):
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
	case customerr.IsValidation(err):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case customerr.IsNotFound(err):
		respondJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		logger.Error("request failed", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func respondMethodNotAllowed(w http.ResponseWriter) {
	respondJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
}

func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &customerr.ValidationError{Err: "malformed request body"}
	}
	return nil
}
