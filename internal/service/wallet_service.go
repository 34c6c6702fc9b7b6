package service

import (
	"context"

	"kidsmoney/internal/models"
)

// Transaction list limits
const (
	DefaultTransactionLimit = 50
	MaxTransactionLimit     = 200
)

// WalletService exposes wallet balances and the transaction log
type WalletService struct {
	*core
}

// Get returns a kid's wallet
func (s *WalletService) Get(ctx context.Context, actor Actor, kidID string) (*models.Wallet, error) {
	if _, err := s.kidFor(ctx, s.repos, actor, kidID); err != nil {
		return nil, err
	}
	w, err := s.repos.Wallets.GetByKidID(ctx, kidID)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, ErrWalletNotFound
	}
	return w, nil
}

// Transactions returns the newest transactions first. A limit outside
// 1..MaxTransactionLimit falls back to the default or the cap.
func (s *WalletService) Transactions(ctx context.Context, actor Actor, kidID string, limit int) ([]models.Transaction, error) {
	if _, err := s.kidFor(ctx, s.repos, actor, kidID); err != nil {
		return nil, err
	}
	switch {
	case limit <= 0:
		limit = DefaultTransactionLimit
	case limit > MaxTransactionLimit:
		limit = MaxTransactionLimit
	}
	return s.repos.Transactions.ListByKid(ctx, kidID, limit)
}
