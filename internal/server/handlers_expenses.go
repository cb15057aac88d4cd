package server

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"max.ks1230/expenses-tracker/internal/entity/expense"
	"max.ks1230/expenses-tracker/internal/logger"
	"max.ks1230/expenses-tracker/internal/model/customerr"
	"max.ks1230/expenses-tracker/internal/model/expenses"
	"max.ks1230/expenses-tracker/internal/model/reports"
)

type expenseRequest struct {
	Amount      int64  `json:"amount"`
	DateTime    string `json:"dateTime"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

func (s *Server) toInput(req expenseRequest) expenses.Input {
	return expenses.Input{
		Amount:      req.Amount,
		DateTime:    req.DateTime,
		Description: s.sanitize.Sanitize(req.Description),
		Category:    req.Category,
	}
}

type filterRequest struct {
	Category string `json:"category"`
	From     int64  `json:"from"`
	To       int64  `json:"to"`
	Year     string `json:"year"`
	Month    string `json:"month"`
}

// toFilter treats omitted criteria the same as the explicit "all".
func (req filterRequest) toFilter() expense.Filter {
	return expense.Filter{
		Category: orAll(req.Category),
		From:     req.From,
		To:       req.To,
		Year:     orAll(req.Year),
		Month:    orAll(req.Month),
	}
}

func orAll(s string) string {
	if s == "" {
		return expense.All
	}
	return s
}

func expenseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.URL.Query().Get("expId"), 10, 64)
	if err != nil {
		return 0, &customerr.ValidationError{Err: "expId must be a number"}
	}
	return id, nil
}

func (s *Server) handleLanding(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		respondJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
		return
	}
	clientID, _ := clientIDFrom(r.Context())

	c, err := s.users.ClientByID(r.Context(), clientID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, clientResponse{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
	})
}

func (s *Server) handleShowAdd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondMethodNotAllowed(w)
		return
	}

	cats, err := s.expenses.Categories(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	names := make([]string, 0, len(cats))
	for _, c := range cats {
		names = append(names, c.Name)
	}
	respondJSON(w, http.StatusOK, map[string][]string{"categories": names})
}

func (s *Server) handleSubmitAdd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondMethodNotAllowed(w)
		return
	}
	clientID, _ := clientIDFrom(r.Context())

	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if _, err := s.expenses.Create(r.Context(), clientID, s.toInput(req)); err != nil {
		respondError(w, err)
		return
	}

	s.invalidateReports(clientID)
	http.Redirect(w, r, "/list", http.StatusSeeOther)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondMethodNotAllowed(w)
		return
	}
	clientID, _ := clientIDFrom(r.Context())

	details, err := s.expenses.ListByClient(r.Context(), clientID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string][]expenseResponse{
		"expenses": toExpenseResponses(details),
	})
}

func (s *Server) handleShowUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondMethodNotAllowed(w)
		return
	}
	clientID, _ := clientIDFrom(r.Context())

	id, err := expenseID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	d, err := s.expenses.Get(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	if d.ClientID != clientID {
		respondJSON(w, http.StatusNotFound, errorResponse{Error: "expense not found"})
		return
	}
	respondJSON(w, http.StatusOK, toExpenseResponse(d))
}

// handleSubmitUpdate replaces the expense's fields. An id that no longer
// exists is not an error; the flow just lands back on the list.
func (s *Server) handleSubmitUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondMethodNotAllowed(w)
		return
	}
	clientID, _ := clientIDFrom(r.Context())

	id, err := expenseID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	d, err := s.expenses.Get(r.Context(), id)
	if customerr.IsNotFound(err) {
		http.Redirect(w, r, "/list", http.StatusSeeOther)
		return
	}
	if err != nil {
		respondError(w, err)
		return
	}
	if d.ClientID != clientID {
		respondJSON(w, http.StatusNotFound, errorResponse{Error: "expense not found"})
		return
	}

	if err := s.expenses.Update(r.Context(), id, s.toInput(req)); err != nil {
		respondError(w, err)
		return
	}

	s.invalidateReports(clientID)
	http.Redirect(w, r, "/list", http.StatusSeeOther)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondMethodNotAllowed(w)
		return
	}
	clientID, _ := clientIDFrom(r.Context())

	id, err := expenseID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	d, err := s.expenses.Get(r.Context(), id)
	if customerr.IsNotFound(err) {
		http.Redirect(w, r, "/list", http.StatusSeeOther)
		return
	}
	if err != nil {
		respondError(w, err)
		return
	}
	if d.ClientID != clientID {
		respondJSON(w, http.StatusNotFound, errorResponse{Error: "expense not found"})
		return
	}

	if err := s.expenses.Delete(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}

	s.invalidateReports(clientID)
	http.Redirect(w, r, "/list", http.StatusSeeOther)
}

func (s *Server) handleProcessFilter(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondMethodNotAllowed(w)
		return
	}
	clientID, _ := clientIDFrom(r.Context())

	var req filterRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	details, err := s.expenses.Filter(r.Context(), clientID, req.toFilter())
	if customerr.IsNotFound(err) {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown filter category " + req.Category})
		return
	}
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string][]expenseResponse{
		"expenses": toExpenseResponses(details),
	})
}

// handleReport serves the period summary from the cache. On a miss it
// queues a report request and answers 202; the client retries later.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondMethodNotAllowed(w)
		return
	}
	clientID, _ := clientIDFrom(r.Context())

	period := r.URL.Query().Get("period")
	if !reports.IsSupported(period) {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "report period " + period + " is not supported"})
		return
	}

	payload, found, err := s.reports.GetReport(clientID, period)
	if err != nil {
		respondError(w, err)
		return
	}
	if found {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(payload)); err != nil {
			logger.Error("write report", zap.Error(err))
		}
		return
	}

	if err := s.producer.RequestReport(reports.Request{ClientID: clientID, Period: period}); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusAccepted, map[string]string{"status": "pending"})
}

func (s *Server) invalidateReports(clientID int64) {
	if err := s.reports.InvalidateReports(clientID); err != nil {
		logger.Warn("failed to invalidate report cache", zap.Error(err))
	}
}
