package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"kidsmoney/internal/database"
	"kidsmoney/internal/models"
	"kidsmoney/internal/progression"
)

// KidRepository handles database operations for kids
type KidRepository struct {
	db database.DBTX
}

// NewKidRepository creates a new kid repository
func NewKidRepository(db database.DBTX) *KidRepository {
	return &KidRepository{db: db}
}

const kidColumns = "id, parent_id, name, age, avatar, grade, ui_theme, pin, xp, level, credit_score, created_at, updated_at"

// CreateKid inserts a new kid profile
func (r *KidRepository) CreateKid(ctx context.Context, kid *models.Kid) error {
	if kid.ID == "" {
		kid.ID = newID()
	}
	if kid.CreatedAt.IsZero() {
		kid.CreatedAt = now()
	}
	if kid.UpdatedAt.IsZero() {
		kid.UpdatedAt = kid.CreatedAt
	}

	query := `
		INSERT INTO kids (` + kidColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		kid.ID, kid.ParentID, kid.Name, kid.Age, kid.Avatar, kid.Grade, kid.UITheme, kid.PIN,
		kid.XP, kid.Level, kid.CreditScore, kid.CreatedAt, kid.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create kid: %w", err)
	}
	return nil
}

// GetKidByID retrieves a kid by ID
func (r *KidRepository) GetKidByID(ctx context.Context, kidID string) (*models.Kid, error) {
	kid, err := scanKid(r.db.QueryRowContext(ctx, "SELECT "+kidColumns+" FROM kids WHERE id = ?", kidID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return kid, err
}

// GetParentKids retrieves all kids belonging to a parent
func (r *KidRepository) GetParentKids(ctx context.Context, parentID string) ([]models.Kid, error) {
	query := `
		SELECT ` + kidColumns + `
		FROM kids
		WHERE parent_id = ?
		ORDER BY created_at ASC
	`
	return r.list(ctx, query, parentID)
}

// FindForLogin returns the kids named name under the parent with parentEmail.
// Names are matched case-insensitively.
func (r *KidRepository) FindForLogin(ctx context.Context, parentEmail, name string) ([]models.Kid, error) {
	query := `
		SELECT k.id, k.parent_id, k.name, k.age, k.avatar, k.grade, k.ui_theme, k.pin,
		       k.xp, k.level, k.credit_score, k.created_at, k.updated_at
		FROM kids k
		JOIN users u ON u.id = k.parent_id
		WHERE u.email = ? AND LOWER(k.name) = ?
		ORDER BY k.created_at ASC
	`
	return r.list(ctx, query,
		strings.ToLower(strings.TrimSpace(parentEmail)),
		strings.ToLower(strings.TrimSpace(name)),
	)
}

// AllKids returns every kid across all parents
func (r *KidRepository) AllKids(ctx context.Context) ([]models.Kid, error) {
	return r.list(ctx, "SELECT "+kidColumns+" FROM kids ORDER BY created_at ASC")
}

// UpdateKid writes the editable profile fields
func (r *KidRepository) UpdateKid(ctx context.Context, kid *models.Kid) error {
	kid.UpdatedAt = now()
	query := `
		UPDATE kids
		SET name = ?, age = ?, avatar = ?, grade = ?, ui_theme = ?, pin = ?, updated_at = ?
		WHERE id = ?
	`
	_, err := r.db.ExecContext(ctx, query,
		kid.Name, kid.Age, kid.Avatar, kid.Grade, kid.UITheme, kid.PIN, kid.UpdatedAt, kid.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update kid: %w", err)
	}
	return nil
}

// ApplyProgress adds xp and shifts the credit score by creditDelta, clamped to its bounds,
// then re-derives the level from the new XP total.
func (r *KidRepository) ApplyProgress(ctx context.Context, kidID string, xp, creditDelta int) error {
	dialect := r.db.GetDialect()
	query := `
		UPDATE kids
		SET xp = xp + ?,
		    credit_score = ` + dialect.ClampExpr("credit_score + ?", progression.MinCreditScore, progression.MaxCreditScore) + `,
		    updated_at = ?
		WHERE id = ?
	`
	if _, err := r.db.ExecContext(ctx, query, xp, creditDelta, now(), kidID); err != nil {
		return fmt.Errorf("failed to apply progress: %w", err)
	}

	if xp == 0 {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, "UPDATE kids SET level = "+levelCaseExpr+" WHERE id = ?", kidID); err != nil {
		return fmt.Errorf("failed to update level: %w", err)
	}
	return nil
}

// levelCaseExpr maps the xp column onto the level ladder
var levelCaseExpr = func() string {
	levels := progression.Levels()
	var b strings.Builder
	b.WriteString("CASE")
	for i := len(levels) - 1; i > 0; i-- {
		b.WriteString(" WHEN xp >= ")
		b.WriteString(strconv.Itoa(levels[i].XPRequired))
		b.WriteString(" THEN ")
		b.WriteString(strconv.Itoa(levels[i].Level))
	}
	b.WriteString(" ELSE ")
	b.WriteString(strconv.Itoa(levels[0].Level))
	b.WriteString(" END")
	return b.String()
}()

// DeleteKid removes a kid and everything that belongs to them.
// Callers should run it inside a transaction.
func (r *KidRepository) DeleteKid(ctx context.Context, kidID string) (bool, error) {
	for _, table := range []string{"transactions", "tasks", "goals", "sips", "loans", "learning_progress", "wallets"} {
		if _, err := r.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE kid_id = ?", kidID); err != nil {
			return false, fmt.Errorf("failed to delete %s for kid: %w", table, err)
		}
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM kids WHERE id = ?", kidID)
	if err != nil {
		return false, fmt.Errorf("failed to delete kid: %w", err)
	}
	return affected(res)
}

func (r *KidRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Kid, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query kids: %w", err)
	}
	defer rows.Close()

	kids := []models.Kid{}
	for rows.Next() {
		kid, err := scanKid(rows)
		if err != nil {
			return nil, err
		}
		kids = append(kids, *kid)
	}
	return kids, rows.Err()
}

func scanKid(row rowScanner) (*models.Kid, error) {
	kid := &models.Kid{}
	var grade sql.NullString
	err := row.Scan(
		&kid.ID,
		&kid.ParentID,
		&kid.Name,
		&kid.Age,
		&kid.Avatar,
		&grade,
		&kid.UITheme,
		&kid.PIN,
		&kid.XP,
		&kid.Level,
		&kid.CreditScore,
		&kid.CreatedAt,
		&kid.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan kid: %w", err)
	}
	if grade.Valid {
		kid.Grade = &grade.String
	}
	return kid, nil
}
