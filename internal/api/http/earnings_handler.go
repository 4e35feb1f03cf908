package http

import (
	"net/http"

	"wotro-backend/internal/domain"
	"wotro-backend/internal/service"
)

type EarningsHandler struct {
	earningsSvc service.EarningsService
}

func NewEarningsHandler(earningsSvc service.EarningsService) *EarningsHandler {
	return &EarningsHandler{earningsSvc: earningsSvc}
}

func (h *EarningsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.earningsSvc.HostDashboard(r.Context(), SessionFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

type earningsPage struct {
	Transactions []domain.LedgerTransaction `json:"transactions"`
	Count        int32                      `json:"count"`
	Page         int32                      `json:"page"`
}

func (h *EarningsHandler) History(w http.ResponseWriter, r *http.Request) {
	page, ok := queryInt(r, "page")
	if !ok {
		badRequest(w, "page must be an integer")
		return
	}
	pageSize, ok := queryInt(r, "page_size")
	if !ok {
		badRequest(w, "page_size must be an integer")
		return
	}
	txs, count, err := h.earningsSvc.EarningsHistory(r.Context(), SessionFromContext(r.Context()), int32(page), int32(pageSize))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if page < 1 {
		page = 1
	}
	if txs == nil {
		txs = []domain.LedgerTransaction{}
	}
	writeJSON(w, http.StatusOK, earningsPage{Transactions: txs, Count: count, Page: int32(page)})
}

func (h *EarningsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	s, err := h.earningsSvc.EarningsSummary(r.Context(), SessionFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}
