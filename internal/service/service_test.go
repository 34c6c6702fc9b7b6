package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"kidsmoney/internal/content"
	"kidsmoney/internal/database"
	"kidsmoney/internal/models"
	"kidsmoney/internal/repository"
	"kidsmoney/internal/security"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) TaskAwaitingApproval(ctx context.Context, parent *models.User, kid *models.Kid, task *models.Task) error {
	args := m.Called(ctx, parent, kid, task)
	return args.Error(0)
}

func (m *mockNotifier) LoanRequested(ctx context.Context, parent *models.User, kid *models.Kid, loan *models.Loan) error {
	args := m.Called(ctx, parent, kid, loan)
	return args.Error(0)
}

func (m *mockNotifier) GoalCompleted(ctx context.Context, parent *models.User, kid *models.Kid, goal *models.Goal) error {
	args := m.Called(ctx, parent, kid, goal)
	return args.Error(0)
}

type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) Record(ctx context.Context, txs []models.Transaction) error {
	args := m.Called(ctx, txs)
	return args.Error(0)
}

type mockIdentifier struct {
	mock.Mock
}

func (m *mockIdentifier) Identify(ctx context.Context, code string) (*security.OAuthIdentity, error) {
	args := m.Called(ctx, code)
	id, _ := args.Get(0).(*security.OAuthIdentity)
	return id, args.Error(1)
}

type fixture struct {
	ctx      context.Context
	db       *database.DB
	svc      *Services
	repos    *repository.Set
	tokens   *security.TokenIssuer
	notifier *mockNotifier
	recorder *mockRecorder
	google   *mockIdentifier
	parent   *models.User
	actor    Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.Initialize(filepath.Join(t.TempDir(), "service.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f := &fixture{
		ctx:      context.Background(),
		db:       db,
		repos:    repository.NewSet(db),
		tokens:   security.NewTokenIssuer("test-secret", time.Hour),
		notifier: &mockNotifier{},
		recorder: &mockRecorder{},
		google:   &mockIdentifier{},
	}
	f.notifier.On("TaskAwaitingApproval", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	f.notifier.On("LoanRequested", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	f.notifier.On("GoalCompleted", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	f.recorder.On("Record", mock.Anything, mock.Anything).Return(nil).Maybe()

	f.svc = New(Deps{
		DB:       db,
		Tokens:   f.tokens,
		Catalog:  content.MustLoad(),
		Notifier: f.notifier,
		Recorder: f.recorder,
		Google:   f.google,
		Logger:   zerolog.Nop(),
	})

	res, err := f.svc.Auth.Signup(f.ctx, "Pat Parent", "pat@example.com", "password123")
	require.NoError(t, err)
	f.parent = res.User
	f.actor = ParentActor(res.User.ID)
	return f
}

// kid creates a kid for the fixture parent with the given starting balance
func (f *fixture) kid(t *testing.T, name string, balance float64) *models.Kid {
	t.Helper()
	kid, err := f.svc.Kids.Create(f.ctx, f.actor, NewKid{Name: name, Age: 10, PIN: "1234", StartingBalance: balance})
	require.NoError(t, err)
	return kid
}

func (f *fixture) wallet(t *testing.T, kidID string) *models.Wallet {
	t.Helper()
	w, err := f.repos.Wallets.GetByKidID(f.ctx, kidID)
	require.NoError(t, err)
	require.NotNil(t, w)
	return w
}

func (f *fixture) reloadKid(t *testing.T, kidID string) *models.Kid {
	t.Helper()
	kid, err := f.repos.Kids.GetKidByID(f.ctx, kidID)
	require.NoError(t, err)
	require.NotNil(t, kid)
	return kid
}

func (f *fixture) transactions(t *testing.T, kidID string) []models.Transaction {
	t.Helper()
	txns, err := f.repos.Transactions.ListByKid(f.ctx, kidID, 200)
	require.NoError(t, err)
	return txns
}

// otherParent signs up a second, unrelated parent
func (f *fixture) otherParent(t *testing.T) Actor {
	t.Helper()
	res, err := f.svc.Auth.Signup(f.ctx, "Sam Stranger", "sam@example.com", "password123")
	require.NoError(t, err)
	return ParentActor(res.User.ID)
}

func boolPtr(b bool) *bool        { return &b }
func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }
