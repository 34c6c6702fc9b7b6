package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"kidsmoney/internal/database"
	"kidsmoney/internal/models"
	"kidsmoney/internal/repository"
)

// BackupVersion is written into every export
const BackupVersion = "1.0"

// BackupData represents the complete database backup structure
type BackupData struct {
	Version          string                    `json:"version"`
	ExportedAt       time.Time                 `json:"exported_at"`
	DatabaseType     string                    `json:"database_type"`
	Users            []UserBackup              `json:"users"`
	Kids             []models.Kid              `json:"kids"`
	Wallets          []models.Wallet           `json:"wallets"`
	Transactions     []models.Transaction      `json:"transactions"`
	Tasks            []models.Task             `json:"tasks"`
	Goals            []models.Goal             `json:"goals"`
	SIPs             []models.SIP              `json:"sips"`
	Loans            []models.Loan             `json:"loans"`
	LearningProgress []models.LearningProgress `json:"learning_progress"`
}

// UserBackup represents a user record for backup, credentials included
type UserBackup struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	FullName      string    `json:"full_name"`
	PasswordHash  string    `json:"password_hash"`
	OAuthProvider string    `json:"oauth_provider"`
	OAuthSubject  string    `json:"oauth_subject"`
	Role          string    `json:"role"`
	CreatedAt     time.Time `json:"created_at"`
}

// BackupService handles database backup and restore operations
type BackupService struct {
	db     *database.DB
	logger zerolog.Logger
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB, logger zerolog.Logger) *BackupService {
	return &BackupService{db: db, logger: logger}
}

// Export writes a complete backup of the database to a file
func (s *BackupService) Export(ctx context.Context, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create backup file: %w", err)
	}
	defer file.Close()

	if err := s.ExportToWriter(ctx, file); err != nil {
		return err
	}
	s.logger.Info().Str("path", outputPath).Msg("database exported")
	return nil
}

// ExportToWriter writes a complete backup as indented JSON
func (s *BackupService) ExportToWriter(ctx context.Context, w io.Writer) error {
	backup, err := s.snapshot(ctx)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	s.logger.Info().
		Int("users", len(backup.Users)).
		Int("kids", len(backup.Kids)).
		Int("transactions", len(backup.Transactions)).
		Int("tasks", len(backup.Tasks)).
		Int("goals", len(backup.Goals)).
		Int("sips", len(backup.SIPs)).
		Int("loans", len(backup.Loans)).
		Msg("backup written")
	return nil
}

// Import restores a backup file. With clearFirst set every table is emptied first.
func (s *BackupService) Import(ctx context.Context, inputPath string, clearFirst bool) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open backup file: %w", err)
	}
	defer file.Close()
	return s.ImportFromReader(ctx, file, clearFirst)
}

// ImportFromReader restores a backup in one transaction
func (s *BackupService) ImportFromReader(ctx context.Context, r io.Reader, clearFirst bool) error {
	var backup BackupData
	if err := json.NewDecoder(r).Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}
	if backup.Version != BackupVersion {
		return fmt.Errorf("unsupported backup version %q", backup.Version)
	}
	s.logger.Info().Str("version", backup.Version).Time("exported_at", backup.ExportedAt).Msg("importing backup")

	err := s.db.WithTx(ctx, func(tx *database.Tx) error {
		repos := repository.NewSet(tx)
		if clearFirst {
			if err := repos.ClearAll(ctx); err != nil {
				return err
			}
		}
		return restore(ctx, repos, &backup)
	})
	if err != nil {
		return fmt.Errorf("failed to import backup: %w", err)
	}

	s.logger.Info().Msg("database import completed")
	return nil
}

func (s *BackupService) snapshot(ctx context.Context) (*BackupData, error) {
	repos := repository.NewSet(s.db)
	backup := &BackupData{
		Version:      BackupVersion,
		ExportedAt:   time.Now().UTC(),
		DatabaseType: s.db.GetDialect().DriverName(),
	}

	users, err := repos.Users.AllUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export users: %w", err)
	}
	backup.Users = make([]UserBackup, 0, len(users))
	for _, u := range users {
		backup.Users = append(backup.Users, UserBackup{
			ID:            u.ID,
			Email:         u.Email,
			FullName:      u.FullName,
			PasswordHash:  u.PasswordHash,
			OAuthProvider: u.OAuthProvider,
			OAuthSubject:  u.OAuthSubject,
			Role:          u.Role,
			CreatedAt:     u.CreatedAt,
		})
	}

	if backup.Kids, err = repos.Kids.AllKids(ctx); err != nil {
		return nil, fmt.Errorf("failed to export kids: %w", err)
	}
	if backup.Wallets, err = repos.Wallets.AllWallets(ctx); err != nil {
		return nil, fmt.Errorf("failed to export wallets: %w", err)
	}
	if backup.Transactions, err = repos.Transactions.AllTransactions(ctx); err != nil {
		return nil, fmt.Errorf("failed to export transactions: %w", err)
	}
	if backup.Tasks, err = repos.Tasks.AllTasks(ctx); err != nil {
		return nil, fmt.Errorf("failed to export tasks: %w", err)
	}
	if backup.Goals, err = repos.Goals.AllGoals(ctx); err != nil {
		return nil, fmt.Errorf("failed to export goals: %w", err)
	}
	if backup.SIPs, err = repos.SIPs.AllSIPs(ctx); err != nil {
		return nil, fmt.Errorf("failed to export sips: %w", err)
	}
	if backup.Loans, err = repos.Loans.AllLoans(ctx); err != nil {
		return nil, fmt.Errorf("failed to export loans: %w", err)
	}
	if backup.LearningProgress, err = repos.Learning.AllProgress(ctx); err != nil {
		return nil, fmt.Errorf("failed to export learning progress: %w", err)
	}
	return backup, nil
}

// restore inserts parents before children so foreign keys hold
func restore(ctx context.Context, repos *repository.Set, b *BackupData) error {
	for _, u := range b.Users {
		user := &models.User{
			ID:            u.ID,
			Email:         u.Email,
			FullName:      u.FullName,
			PasswordHash:  u.PasswordHash,
			OAuthProvider: u.OAuthProvider,
			OAuthSubject:  u.OAuthSubject,
			Role:          u.Role,
			CreatedAt:     u.CreatedAt,
		}
		if err := repos.Users.CreateUser(ctx, user); err != nil {
			return err
		}
	}
	for i := range b.Kids {
		if err := repos.Kids.CreateKid(ctx, &b.Kids[i]); err != nil {
			return err
		}
	}
	for i := range b.Wallets {
		if err := repos.Wallets.CreateWallet(ctx, &b.Wallets[i]); err != nil {
			return err
		}
	}
	for i := range b.Transactions {
		if err := repos.Transactions.CreateTransaction(ctx, &b.Transactions[i]); err != nil {
			return err
		}
	}
	for i := range b.Tasks {
		if err := repos.Tasks.CreateTask(ctx, &b.Tasks[i]); err != nil {
			return err
		}
	}
	for i := range b.Goals {
		if err := repos.Goals.CreateGoal(ctx, &b.Goals[i]); err != nil {
			return err
		}
	}
	for i := range b.SIPs {
		if err := repos.SIPs.CreateSIP(ctx, &b.SIPs[i]); err != nil {
			return err
		}
	}
	for i := range b.Loans {
		if err := repos.Loans.CreateLoan(ctx, &b.Loans[i]); err != nil {
			return err
		}
	}
	for i := range b.LearningProgress {
		if err := repos.Learning.CreateProgress(ctx, &b.LearningProgress[i]); err != nil {
			return err
		}
	}
	return nil
}
