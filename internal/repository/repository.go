// Package repository persists domain models through the dialect-aware database layer.
// Lookups that find nothing return (nil, nil); callers decide whether that is an error.
package repository

import (
	"context"
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid"

	"kidsmoney/internal/database"
)

// Set bundles every repository bound to the same connection or transaction
type Set struct {
	Users        *UserRepository
	Kids         *KidRepository
	Wallets      *WalletRepository
	Transactions *TransactionRepository
	Tasks        *TaskRepository
	Goals        *GoalRepository
	SIPs         *SIPRepository
	Loans        *LoanRepository
	Learning     *LearningRepository
}

// NewSet binds all repositories to db, which may be a *database.DB or a *database.Tx
func NewSet(db database.DBTX) *Set {
	return &Set{
		Users:        NewUserRepository(db),
		Kids:         NewKidRepository(db),
		Wallets:      NewWalletRepository(db),
		Transactions: NewTransactionRepository(db),
		Tasks:        NewTaskRepository(db),
		Goals:        NewGoalRepository(db),
		SIPs:         NewSIPRepository(db),
		Loans:        NewLoanRepository(db),
		Learning:     NewLearningRepository(db),
	}
}

// tablesChildFirst lists tables in an order safe for deletion under foreign keys
var tablesChildFirst = []string{
	"transactions",
	"tasks",
	"goals",
	"sips",
	"loans",
	"learning_progress",
	"wallets",
	"kids",
	"users",
}

// ClearAll removes every row from every domain table. Used by backup restore.
func (s *Set) ClearAll(ctx context.Context) error {
	db := s.Users.db
	for _, table := range tablesChildFirst {
		if _, err := db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func newID() string {
	return uuid.NewString()
}

var (
	ulidMu      sync.Mutex
	ulidEntropy = ulid.Monotonic(rand.Reader, 0)
)

// NewTransactionID returns a ULID so transaction ids sort in creation order
func NewTransactionID(at time.Time) string {
	ulidMu.Lock()
	defer ulidMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(at), ulidEntropy).String()
}

func now() time.Time {
	return time.Now().UTC()
}

// affected reports whether an UPDATE or DELETE touched at least one row
func affected(res interface{ RowsAffected() (int64, error) }) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}
