// Package service holds the business rules of the wallet, tasks, savings products,
// lessons and accounts. Handlers call it with an Actor describing the caller.
package service

import (
	"context"

	"github.com/rs/zerolog"

	"kidsmoney/internal/activity"
	"kidsmoney/internal/content"
	"kidsmoney/internal/database"
	"kidsmoney/internal/models"
	"kidsmoney/internal/repository"
	"kidsmoney/internal/security"
)

// OAuthIdentifier resolves a sign-in code to a provider identity
type OAuthIdentifier interface {
	Identify(ctx context.Context, code string) (*security.OAuthIdentity, error)
}

// Deps are the collaborators shared by every service
type Deps struct {
	DB       *database.DB
	Tokens   *security.TokenIssuer
	Catalog  *content.Catalog
	Notifier Notifier
	Recorder activity.Recorder
	// Google is nil when Google sign-in is not configured
	Google OAuthIdentifier
	Logger zerolog.Logger
}

// Services bundles the application services
type Services struct {
	Auth      *AuthService
	Kids      *KidService
	Wallets   *WalletService
	Tasks     *TaskService
	Goals     *GoalService
	SIPs      *SIPService
	Loans     *LoanService
	Learning  *LearningService
	Dashboard *DashboardService
	Backup    *BackupService
}

// New wires every service from deps
func New(d Deps) *Services {
	if d.Notifier == nil {
		d.Notifier = NopNotifier{}
	}
	c := &core{
		repos:    repository.NewSet(d.DB),
		ledger:   NewLedger(d.DB, d.Recorder, d.Logger),
		notifier: d.Notifier,
		catalog:  d.Catalog,
		logger:   d.Logger,
	}
	return &Services{
		Auth:      &AuthService{core: c, tokens: d.Tokens, google: d.Google},
		Kids:      &KidService{core: c},
		Wallets:   &WalletService{core: c},
		Tasks:     &TaskService{core: c},
		Goals:     &GoalService{core: c},
		SIPs:      &SIPService{core: c},
		Loans:     &LoanService{core: c},
		Learning:  &LearningService{core: c},
		Dashboard: &DashboardService{core: c},
		Backup:    NewBackupService(d.DB, d.Logger),
	}
}

type core struct {
	repos    *repository.Set
	ledger   *Ledger
	notifier Notifier
	catalog  *content.Catalog
	logger   zerolog.Logger
}

// kidFor loads a kid the actor is allowed to see. Someone else's kid is reported
// as missing so ids cannot be probed.
func (c *core) kidFor(ctx context.Context, repos *repository.Set, actor Actor, kidID string) (*models.Kid, error) {
	kid, err := repos.Kids.GetKidByID(ctx, kidID)
	if err != nil {
		return nil, err
	}
	if !actor.ownsKid(kid) {
		return nil, ErrKidNotFound
	}
	return kid, nil
}

// notify loads the parent and kid and hands them to send. Failures are logged only.
func (c *core) notify(ctx context.Context, kidID, event string, send func(parent *models.User, kid *models.Kid) error) {
	log := c.logger.With().Str("kid_id", kidID).Str("event", event).Logger()

	kid, err := c.repos.Kids.GetKidByID(ctx, kidID)
	if err != nil || kid == nil {
		log.Warn().Err(err).Msg("notification skipped: kid not found")
		return
	}
	parent, err := c.repos.Users.GetUserByID(ctx, kid.ParentID)
	if err != nil || parent == nil {
		log.Warn().Err(err).Msg("notification skipped: parent not found")
		return
	}
	if err := send(parent, kid); err != nil {
		log.Warn().Err(err).Msg("failed to notify parent")
	}
}
