// Package activity mirrors posted wallet transactions to an external activity store.
package activity

import (
	"context"

	"kidsmoney/internal/models"
)

// Recorder receives transactions after they have been committed
type Recorder interface {
	Record(ctx context.Context, txs []models.Transaction) error
}

// Nop discards everything
type Nop struct{}

// Record implements Recorder
func (Nop) Record(context.Context, []models.Transaction) error { return nil }
