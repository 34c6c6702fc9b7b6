package service

import (
	"context"
	"fmt"

	"kidsmoney/internal/finance"
	"kidsmoney/internal/models"
	"kidsmoney/internal/progression"
	"kidsmoney/internal/repository"
	"kidsmoney/internal/validation"
)

// SIP defaults
const (
	DefaultSIPRate      = 8.0
	DefaultSIPFrequency = FrequencyMonthly
)

// NewSIP is the input for starting a SIP. A nil InterestRate means the default.
type NewSIP struct {
	KidID        string
	Amount       float64
	InterestRate *float64
	Frequency    string
}

// SIPService runs the recurring investment simulator
type SIPService struct {
	*core
}

// Create starts a SIP
func (s *SIPService) Create(ctx context.Context, actor Actor, in NewSIP) (*models.SIP, error) {
	if actor.IsKid() {
		return nil, ErrForbidden
	}
	rate := DefaultSIPRate
	if in.InterestRate != nil {
		rate = *in.InterestRate
	}
	if in.Frequency == "" {
		in.Frequency = DefaultSIPFrequency
	}
	err := validation.First(
		validation.ValidateAmount("amount", in.Amount),
		validation.ValidateInterestRate(rate),
		validation.ValidateOneOf("frequency", in.Frequency, FrequencyWeekly, FrequencyMonthly),
	)
	if err != nil {
		return nil, err
	}
	if _, err := s.kidFor(ctx, s.repos, actor, in.KidID); err != nil {
		return nil, err
	}

	sip := &models.SIP{
		KidID:        in.KidID,
		ParentID:     actor.ParentID,
		Amount:       in.Amount,
		InterestRate: rate,
		Frequency:    in.Frequency,
		Status:       models.SIPActive,
	}
	if err := s.repos.SIPs.CreateSIP(ctx, sip); err != nil {
		return nil, err
	}
	return sip, nil
}

// List returns a kid's SIPs
func (s *SIPService) List(ctx context.Context, actor Actor, kidID string) ([]models.SIP, error) {
	if _, err := s.kidFor(ctx, s.repos, actor, kidID); err != nil {
		return nil, err
	}
	return s.repos.SIPs.ListByKid(ctx, kidID)
}

// Pay makes one instalment and re-derives the current value
func (s *SIPService) Pay(ctx context.Context, actor Actor, sipID string) (*models.SIP, error) {
	var sip *models.SIP
	err := s.ledger.Run(ctx, func(tx *LedgerTx) error {
		current, err := s.sipFor(ctx, tx.Repos, actor, sipID)
		if err != nil {
			return err
		}
		if current.Status != models.SIPActive {
			return ErrSIPNotActive
		}

		next := *current
		next.PaymentsMade++
		next.TotalInvested = finance.Add(current.TotalInvested, current.Amount)
		next.CurrentValue = finance.SIPValue(current.Amount, current.InterestRate, next.PaymentsMade)

		err = tx.MoveToSavings(ctx, current.KidID, current.Amount, Entry{
			Description: fmt.Sprintf("SIP payment #%d", next.PaymentsMade),
			Category:    models.CategorySIP,
			ReferenceID: current.ID,
		})
		if err != nil {
			return err
		}
		ok, err := tx.Repos.SIPs.RecordPayment(ctx, &next, current.PaymentsMade)
		if err != nil {
			return err
		}
		if !ok {
			return ErrSIPNotActive
		}
		if err := tx.Reward(ctx, current.KidID, progression.SIPPaymentXP, progression.SIPPaymentCredit); err != nil {
			return err
		}
		sip = &next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sip, nil
}

// Toggle pauses an active SIP or resumes a paused one
func (s *SIPService) Toggle(ctx context.Context, actor Actor, sipID string) (*models.SIP, error) {
	if actor.IsKid() {
		return nil, ErrForbidden
	}
	var sip *models.SIP
	err := s.ledger.Run(ctx, func(tx *LedgerTx) error {
		current, err := s.sipFor(ctx, tx.Repos, actor, sipID)
		if err != nil {
			return err
		}
		to := models.SIPPaused
		if current.Status != models.SIPActive {
			to = models.SIPActive
		}
		ok, err := tx.Repos.SIPs.Transition(ctx, current.ID, current.Status, to)
		if err != nil {
			return err
		}
		if !ok {
			return invalidState("SIP status changed, try again")
		}
		current.Status = to
		sip = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sip, nil
}

func (s *SIPService) sipFor(ctx context.Context, repos *repository.Set, actor Actor, sipID string) (*models.SIP, error) {
	sip, err := repos.SIPs.GetSIPByID(ctx, sipID)
	if err != nil {
		return nil, err
	}
	if sip == nil || !actor.canSee(sip.KidID, sip.ParentID) {
		return nil, ErrSIPNotFound
	}
	return sip, nil
}
