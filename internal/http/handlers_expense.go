package http

import (
	"net/http"
	"strconv"
	"strings"

	"kharcha/internal/core"
)

type createExpenseRequest struct {
	Year   int        `json:"year"`
	Month  int        `json:"month"`
	Day    int        `json:"day"`
	Name   string     `json:"name"`
	Amount core.Money `json:"amount"`
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request, owner core.Owner) {
	year, month := pathInt(r, "year"), pathInt(r, "month")

	key := listCacheKey(owner, year, month)
	if cached, ok := s.listCache.Get(key); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	items, err := s.ledger.ListExpenses(r.Context(), owner, year, month)
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]expenseResponse, 0, len(items))
	for _, e := range items {
		out = append(out, toExpenseResponse(e))
	}
	s.listCache.Set(key, out)
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAnnualExpenses(w http.ResponseWriter, r *http.Request, owner core.Owner) {
	year := pathInt(r, "year")

	grouped, err := s.ledger.ListAnnualExpenses(r.Context(), owner, year)
	if err != nil {
		respondError(w, r, err)
		return
	}

	// Months without expenses have no key, so the response object
	// only carries months that actually have data.
	out := make(map[int][]expenseResponse, len(grouped))
	for month, items := range grouped {
		rows := make([]expenseResponse, 0, len(items))
		for _, e := range items {
			rows = append(rows, toExpenseResponse(e))
		}
		out[month] = rows
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request, owner core.Owner) {
	var req createExpenseRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	e := core.Expense{
		Year:   req.Year,
		Month:  req.Month,
		Day:    req.Day,
		Name:   strings.TrimSpace(req.Name),
		Amount: req.Amount,
	}
	saved, err := s.ledger.AddExpense(r.Context(), owner, e)
	if err != nil {
		respondError(w, r, err)
		return
	}

	s.invalidatePeriod(owner, saved.Year, saved.Month)
	writeJSON(w, http.StatusCreated, toExpenseResponse(saved))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request, owner core.Owner) {
	id := r.PathValue("id")

	if err := s.ledger.RemoveExpense(r.Context(), owner, id); err != nil {
		respondError(w, r, err)
		return
	}

	// The expense's period is gone with the record, so every cached
	// view of this owner is dropped.
	s.summaryCache.DeletePrefix(owner.ID + ":")
	s.listCache.DeletePrefix(owner.ID + ":")
	writeJSON(w, http.StatusOK, map[string]string{"message": "Expense deleted successfully"})
}

func listCacheKey(owner core.Owner, year, month int) string {
	return owner.ID + ":" + strconv.Itoa(year) + ":" + strconv.Itoa(month)
}

func (s *Server) invalidateSummary(owner core.Owner, year, month int) {
	s.summaryCache.Delete(listCacheKey(owner, year, month))
}

func (s *Server) invalidatePeriod(owner core.Owner, year, month int) {
	key := listCacheKey(owner, year, month)
	s.summaryCache.Delete(key)
	s.listCache.Delete(key)
}
