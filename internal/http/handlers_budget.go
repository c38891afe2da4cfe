package http

import (
	"net/http"

	"kharcha/internal/core"
)

type setBudgetRequest struct {
	Year   int        `json:"year"`
	Month  int        `json:"month"`
	Amount core.Money `json:"amount"`
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request, owner core.Owner) {
	year, month := pathInt(r, "year"), pathInt(r, "month")

	amount, err := s.ledger.GetBudget(r.Context(), owner, year, month)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, amountResponse{Amount: amount})
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request, owner core.Owner) {
	var req setBudgetRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	b, err := s.ledger.SetBudget(r.Context(), owner, req.Year, req.Month, req.Amount)
	if err != nil {
		respondError(w, r, err)
		return
	}

	s.invalidateSummary(owner, req.Year, req.Month)
	writeJSON(w, http.StatusOK, budgetResponse{
		Year:      b.Year,
		Month:     b.Month,
		Amount:    b.Amount,
		UpdatedAt: b.UpdatedAt,
	})
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request, owner core.Owner) {
	year, month := pathInt(r, "year"), pathInt(r, "month")

	if err := s.ledger.DeleteBudget(r.Context(), owner, year, month); err != nil {
		respondError(w, r, err)
		return
	}

	s.invalidateSummary(owner, year, month)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Budget deleted successfully"})
}
