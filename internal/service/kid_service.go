package service

import (
	"context"
	"fmt"
	"strings"

	"kidsmoney/internal/credentials"
	"kidsmoney/internal/models"
	"kidsmoney/internal/progression"
	"kidsmoney/internal/validation"
)

// DefaultAvatar is used when a kid is created without one
const DefaultAvatar = "panda"

// NewKid is the input for creating a kid
type NewKid struct {
	Name            string
	Age             int
	Avatar          string
	Grade           *string
	UITheme         string
	PIN             string
	StartingBalance float64
}

// KidChanges lists the profile fields to update. Nil fields are left alone.
type KidChanges struct {
	Name    *string
	Age     *int
	Avatar  *string
	Grade   *string
	UITheme *string
	PIN     *string
}

// KidService manages kid profiles
type KidService struct {
	*core
}

// Create adds a kid with an empty or pre-funded wallet
func (s *KidService) Create(ctx context.Context, actor Actor, in NewKid) (*models.Kid, error) {
	if actor.IsKid() {
		return nil, ErrForbidden
	}
	if in.Avatar == "" {
		in.Avatar = DefaultAvatar
	}
	if in.UITheme == "" {
		in.UITheme = models.ThemeNeutral
	}
	if err := s.validateProfile(in.Name, in.Age, in.Avatar, in.UITheme, in.PIN); err != nil {
		return nil, err
	}
	if err := validation.ValidateOptionalAmount("starting_balance", in.StartingBalance); err != nil {
		return nil, err
	}

	pin := in.PIN
	if pin == "" {
		generated, err := credentials.GeneratePIN()
		if err != nil {
			return nil, fmt.Errorf("failed to generate pin: %w", err)
		}
		pin = generated
	}

	kid := &models.Kid{
		ParentID:    actor.ParentID,
		Name:        strings.TrimSpace(in.Name),
		Age:         in.Age,
		Avatar:      in.Avatar,
		Grade:       in.Grade,
		UITheme:     in.UITheme,
		PIN:         pin,
		Level:       progression.LevelForXP(0).Level,
		CreditScore: progression.StartingCreditScore,
	}

	err := s.ledger.Run(ctx, func(tx *LedgerTx) error {
		if err := tx.Repos.Kids.CreateKid(ctx, kid); err != nil {
			return err
		}
		if err := tx.Repos.Wallets.CreateWallet(ctx, &models.Wallet{KidID: kid.ID}); err != nil {
			return err
		}
		if in.StartingBalance > 0 {
			return tx.Credit(ctx, kid.ID, in.StartingBalance, Entry{
				Description: "Starting balance",
				Category:    models.CategoryInitial,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("kid_id", kid.ID).Str("parent_id", kid.ParentID).Msg("kid created")
	return kid, nil
}

// List returns the parent's kids
func (s *KidService) List(ctx context.Context, actor Actor) ([]models.Kid, error) {
	if actor.IsKid() {
		return nil, ErrForbidden
	}
	return s.repos.Kids.GetParentKids(ctx, actor.ParentID)
}

// Get returns one kid
func (s *KidService) Get(ctx context.Context, actor Actor, kidID string) (*models.Kid, error) {
	return s.kidFor(ctx, s.repos, actor, kidID)
}

// Update edits a kid's profile
func (s *KidService) Update(ctx context.Context, actor Actor, kidID string, ch KidChanges) (*models.Kid, error) {
	if actor.IsKid() {
		return nil, ErrForbidden
	}
	kid, err := s.kidFor(ctx, s.repos, actor, kidID)
	if err != nil {
		return nil, err
	}

	if ch.Name != nil {
		kid.Name = strings.TrimSpace(*ch.Name)
	}
	if ch.Age != nil {
		kid.Age = *ch.Age
	}
	if ch.Avatar != nil {
		kid.Avatar = *ch.Avatar
	}
	if ch.Grade != nil {
		kid.Grade = ch.Grade
	}
	if ch.UITheme != nil {
		kid.UITheme = *ch.UITheme
	}
	pin := ""
	if ch.PIN != nil {
		pin = *ch.PIN
		if pin == "" {
			return nil, validation.ValidationError{Field: "pin", Message: "pin cannot be empty"}
		}
	}
	if err := s.validateProfile(kid.Name, kid.Age, kid.Avatar, kid.UITheme, pin); err != nil {
		return nil, err
	}
	if pin != "" {
		kid.PIN = pin
	}

	if err := s.repos.Kids.UpdateKid(ctx, kid); err != nil {
		return nil, err
	}
	return kid, nil
}

// Delete removes a kid and every record that belongs to them
func (s *KidService) Delete(ctx context.Context, actor Actor, kidID string) error {
	if actor.IsKid() {
		return ErrForbidden
	}
	err := s.ledger.Run(ctx, func(tx *LedgerTx) error {
		if _, err := s.kidFor(ctx, tx.Repos, actor, kidID); err != nil {
			return err
		}
		ok, err := tx.Repos.Kids.DeleteKid(ctx, kidID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrKidNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info().Str("kid_id", kidID).Msg("kid deleted")
	return nil
}

func (s *KidService) validateProfile(name string, age int, avatar, theme, pin string) error {
	err := validation.First(
		validation.ValidateName(name),
		validation.ValidateAge(age),
		validation.ValidateOneOf("ui_theme", theme, models.ThemeBoy, models.ThemeGirl, models.ThemeNeutral),
	)
	if err != nil {
		return err
	}
	if s.catalog != nil && !s.catalog.HasAvatar(avatar) {
		return validation.ValidationError{Field: "avatar", Message: "unknown avatar"}
	}
	if pin != "" && !credentials.ValidPIN(pin) {
		return validation.ValidationError{Field: "pin", Message: fmt.Sprintf("pin must be %d digits", credentials.PINLength)}
	}
	return nil
}
