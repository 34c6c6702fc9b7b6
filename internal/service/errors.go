package service

import "errors"

// Error kinds. Handlers map these to HTTP statuses with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrInsufficientFunds  = errors.New("Insufficient balance")
	ErrCreditTooLow       = errors.New("Credit score too low for a loan")
	ErrInvalidCredentials = errors.New("Invalid email or password")
	ErrEmailTaken         = errors.New("Email already registered")
	ErrForbidden          = errors.New("forbidden")
)

// ruleError carries a user-facing message and unwraps to its kind
type ruleError struct {
	kind error
	msg  string
}

func (e *ruleError) Error() string { return e.msg }
func (e *ruleError) Unwrap() error { return e.kind }

func notFound(msg string) error     { return &ruleError{kind: ErrNotFound, msg: msg} }
func invalidState(msg string) error { return &ruleError{kind: ErrPreconditionFailed, msg: msg} }

// Specific errors returned by the services
var (
	ErrKidNotFound      = notFound("Kid not found")
	ErrWalletNotFound   = notFound("Wallet not found")
	ErrTaskNotFound     = notFound("Task not found")
	ErrGoalNotFound     = notFound("Goal not found")
	ErrSIPNotFound      = notFound("SIP not found")
	ErrLoanNotFound     = notFound("Loan not found")
	ErrStoryNotFound    = notFound("Story not found")
	ErrUserNotFound     = notFound("User not found")
	ErrOAuthUnavailable = notFound("Google sign-in is not configured")

	ErrTaskNotPending   = invalidState("Task is not pending")
	ErrTaskNotCompleted = invalidState("Task must be completed first")
	ErrGoalNotActive    = invalidState("Goal is not active")
	ErrSIPNotActive     = invalidState("SIP is not active")
	ErrLoanNotPending   = invalidState("Loan is not pending approval")
	ErrLoanNotActive    = invalidState("Loan is not active")
	ErrInvalidKidLogin  = &ruleError{kind: ErrInvalidCredentials, msg: "Invalid parent email, kid name or PIN"}
)
