package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"kidsmoney/internal/finance"
	"kidsmoney/internal/models"
	"kidsmoney/internal/progression"
	"kidsmoney/internal/repository"
	"kidsmoney/internal/validation"
)

// Loan defaults
const (
	DefaultLoanMonths = 6
	DefaultLoanRate   = 5.0
)

// NewLoan is the input for requesting a loan. Nil fields take the defaults.
type NewLoan struct {
	KidID          string
	Amount         float64
	Purpose        string
	DurationMonths *int
	InterestRate   *float64
}

// LoanService runs the amortising loan simulator
type LoanService struct {
	*core
}

// Request files a loan request. The kid must have a credit score of at least
// progression.LoanMinCreditScore. The EMI is fixed here for the life of the loan.
// The outstanding balance starts at the principal; TotalPayable is informational.
func (s *LoanService) Request(ctx context.Context, actor Actor, in NewLoan) (*models.Loan, error) {
	if actor.IsKid() {
		in.KidID = actor.KidID
	}
	months := DefaultLoanMonths
	if in.DurationMonths != nil {
		months = *in.DurationMonths
	}
	rate := DefaultLoanRate
	if in.InterestRate != nil {
		rate = *in.InterestRate
	}
	err := validation.First(
		validation.ValidateAmount("amount", in.Amount),
		validation.ValidateRequired("purpose", in.Purpose, 200),
		validation.ValidateLoanDuration(months),
		validation.ValidateInterestRate(rate),
	)
	if err != nil {
		return nil, err
	}

	kid, err := s.kidFor(ctx, s.repos, actor, in.KidID)
	if err != nil {
		return nil, err
	}
	if kid.CreditScore < progression.LoanMinCreditScore {
		return nil, ErrCreditTooLow
	}

	emi := finance.EMI(in.Amount, rate, months)
	if emi <= 0 {
		return nil, validation.ValidationError{Field: "amount", Message: "amount is too small for the chosen duration"}
	}
	total := finance.TotalPayable(emi, months)
	loan := &models.Loan{
		KidID:            kid.ID,
		ParentID:         kid.ParentID,
		Principal:        in.Amount,
		InterestRate:     rate,
		DurationMonths:   months,
		EMIAmount:        emi,
		TotalPayable:     total,
		RemainingBalance: in.Amount,
		Purpose:          strings.TrimSpace(in.Purpose),
		Status:           models.LoanPending,
	}
	if err := s.repos.Loans.CreateLoan(ctx, loan); err != nil {
		return nil, err
	}

	if actor.IsKid() {
		s.notify(ctx, loan.KidID, "loan_requested", func(parent *models.User, kid *models.Kid) error {
			return s.notifier.LoanRequested(ctx, parent, kid, loan)
		})
	}
	return loan, nil
}

// List returns a kid's loans
func (s *LoanService) List(ctx context.Context, actor Actor, kidID string) ([]models.Loan, error) {
	if _, err := s.kidFor(ctx, s.repos, actor, kidID); err != nil {
		return nil, err
	}
	return s.repos.Loans.ListByKid(ctx, kidID)
}

// Approve disburses the principal of a pending loan
func (s *LoanService) Approve(ctx context.Context, actor Actor, loanID string) (*models.Loan, error) {
	if actor.IsKid() {
		return nil, ErrForbidden
	}
	var loan *models.Loan
	err := s.ledger.Run(ctx, func(tx *LedgerTx) error {
		l, err := s.loanFor(ctx, tx.Repos, actor, loanID)
		if err != nil {
			return err
		}
		if l.Status != models.LoanPending {
			return ErrLoanNotPending
		}
		ok, err := tx.Repos.Loans.Transition(ctx, l.ID, models.LoanPending, models.LoanActive)
		if err != nil {
			return err
		}
		if !ok {
			return ErrLoanNotPending
		}
		err = tx.Credit(ctx, l.KidID, l.Principal, Entry{
			Description: fmt.Sprintf("Loan approved: %s", l.Purpose),
			Category:    models.CategoryLoan,
			ReferenceID: l.ID,
		})
		if err != nil {
			return err
		}
		l.Status = models.LoanActive
		loan = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return loan, nil
}

// Pay makes one EMI payment. The last payment is capped at the remaining balance.
func (s *LoanService) Pay(ctx context.Context, actor Actor, loanID string) (*models.Loan, error) {
	var loan *models.Loan
	err := s.ledger.Run(ctx, func(tx *LedgerTx) error {
		current, err := s.loanFor(ctx, tx.Repos, actor, loanID)
		if err != nil {
			return err
		}
		if current.Status != models.LoanActive {
			return ErrLoanNotActive
		}

		pay := finance.Round2(math.Min(current.EMIAmount, current.RemainingBalance))
		next := *current
		next.PaymentsMade++
		next.RemainingBalance = math.Max(0, finance.Sub(current.RemainingBalance, pay))
		if next.RemainingBalance <= 0 {
			next.Status = models.LoanCompleted
		}

		err = tx.Debit(ctx, current.KidID, pay, Entry{
			Description: fmt.Sprintf("EMI payment #%d", next.PaymentsMade),
			Category:    models.CategoryEMI,
			ReferenceID: current.ID,
		})
		if err != nil {
			return err
		}
		ok, err := tx.Repos.Loans.RecordPayment(ctx, &next, current.PaymentsMade)
		if err != nil {
			return err
		}
		if !ok {
			return ErrLoanNotActive
		}
		if err := tx.Reward(ctx, current.KidID, progression.EMIPaymentXP, progression.EMIPaymentCredit); err != nil {
			return err
		}
		loan = &next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return loan, nil
}

func (s *LoanService) loanFor(ctx context.Context, repos *repository.Set, actor Actor, loanID string) (*models.Loan, error) {
	l, err := repos.Loans.GetLoanByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if l == nil || !actor.canSee(l.KidID, l.ParentID) {
		return nil, ErrLoanNotFound
	}
	return l, nil
}
