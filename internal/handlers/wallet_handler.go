package handlers

import (
	"net/http"
	"strconv"

	"kidsmoney/internal/service"
)

// WalletHandler serves balances and the transaction log
type WalletHandler struct {
	walletService *service.WalletService
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(walletService *service.WalletService) *WalletHandler {
	return &WalletHandler{walletService: walletService}
}

// GetWallet returns a kid's wallet
func (h *WalletHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	actor := actorFromRequest(r)
	wallet, err := h.walletService.Get(r.Context(), actor, kidIDFor(r, actor))
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wallet)
}

// ListTransactions returns the newest transactions first, up to ?limit=
func (h *WalletHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	limit := service.DefaultTransactionLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondWithError(w, r, badRequest("limit must be a number"))
			return
		}
		limit = n
	}

	actor := actorFromRequest(r)
	txns, err := h.walletService.Transactions(r.Context(), actor, kidIDFor(r, actor), limit)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, txns)
}
