package http

import (
	"net/http"

	"kharcha/internal/core"
)

// handleMonthSummary returns the period total, the budget (zero when
// unset) and the exceeded flag. Observing the summary also drives the
// per-owner alert latch, which pushes at most one notification per
// within->exceeded transition.
func (s *Server) handleMonthSummary(w http.ResponseWriter, r *http.Request, owner core.Owner) {
	year, month := pathInt(r, "year"), pathInt(r, "month")

	if cached, ok := s.summaryCache.Get(listCacheKey(owner, year, month)); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	total, budget, _, err := s.ledger.MonthSummary(r.Context(), owner, year, month)
	if err != nil {
		respondError(w, r, err)
		return
	}

	exceeded := false
	if s.monitor != nil {
		exceeded = s.monitor.Observe(r.Context(), owner, core.Period{Year: year, Month: month}, total, budget)
	} else {
		exceeded = core.IsExceeded(total, budget)
	}

	resp := summaryResponse{
		Year:     year,
		Month:    month,
		Total:    total,
		Budget:   budget,
		Exceeded: exceeded,
	}
	s.summaryCache.Set(listCacheKey(owner, year, month), resp)
	writeJSON(w, http.StatusOK, resp)
}
