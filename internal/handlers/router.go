package handlers

import (
	"net/http"

	"kidsmoney/internal/content"
	"kidsmoney/internal/service"
)

// NewRouter registers every API route and wraps the mux with CORS and access logging
func NewRouter(svc *service.Services, catalog *content.Catalog, middleware *Middleware, startup *StartupStatus) http.Handler {
	authHandler := NewAuthHandler(svc.Auth)
	kidHandler := NewKidHandler(svc.Kids)
	taskHandler := NewTaskHandler(svc.Tasks)
	walletHandler := NewWalletHandler(svc.Wallets)
	savingsHandler := NewSavingsHandler(svc.Goals, svc.SIPs, svc.Loans)
	learningHandler := NewLearningHandler(svc.Learning)
	dashboardHandler := NewDashboardHandler(svc.Dashboard)
	configHandler := NewConfigHandler(catalog)

	parent := middleware.RequireParent
	kid := middleware.RequireKid

	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("GET /healthz", startup.Health)
	mux.HandleFunc("POST /api/auth/signup", middleware.RateLimit(authHandler.Signup))
	mux.HandleFunc("POST /api/auth/login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("POST /api/auth/kid-login", middleware.RateLimit(authHandler.KidLogin))
	mux.HandleFunc("POST /api/auth/oauth/google", middleware.RateLimit(authHandler.GoogleLogin))
	mux.HandleFunc("GET /api/config/levels", configHandler.Levels)
	mux.HandleFunc("GET /api/config/avatars", configHandler.Avatars)

	// Any signed-in caller
	mux.HandleFunc("GET /api/auth/me", middleware.RequireAuth(authHandler.Me))

	// Parent routes
	mux.HandleFunc("POST /api/kids", parent(kidHandler.CreateKid))
	mux.HandleFunc("GET /api/kids", parent(kidHandler.ListKids))
	mux.HandleFunc("GET /api/kids/{kid_id}", parent(kidHandler.GetKid))
	mux.HandleFunc("PUT /api/kids/{kid_id}", parent(kidHandler.UpdateKid))
	mux.HandleFunc("DELETE /api/kids/{kid_id}", parent(kidHandler.DeleteKid))

	mux.HandleFunc("POST /api/tasks", parent(taskHandler.CreateTask))
	mux.HandleFunc("GET /api/tasks/{kid_id}", parent(taskHandler.ListTasks))
	mux.HandleFunc("PUT /api/tasks/{task_id}/complete", parent(taskHandler.CompleteTask))
	mux.HandleFunc("PUT /api/tasks/{task_id}/approve", parent(taskHandler.ApproveTask))
	mux.HandleFunc("PUT /api/tasks/{task_id}/reject", parent(taskHandler.RejectTask))

	mux.HandleFunc("GET /api/wallet/{kid_id}", parent(walletHandler.GetWallet))
	mux.HandleFunc("GET /api/wallet/{kid_id}/transactions", parent(walletHandler.ListTransactions))

	mux.HandleFunc("POST /api/goals", parent(savingsHandler.CreateGoal))
	mux.HandleFunc("GET /api/goals/{kid_id}", parent(savingsHandler.ListGoals))
	mux.HandleFunc("PUT /api/goals/{goal_id}/contribute", parent(savingsHandler.ContributeGoal))
	mux.HandleFunc("DELETE /api/goals/{goal_id}", parent(savingsHandler.DeleteGoal))

	mux.HandleFunc("POST /api/sip", parent(savingsHandler.CreateSIP))
	mux.HandleFunc("GET /api/sip/{kid_id}", parent(savingsHandler.ListSIPs))
	mux.HandleFunc("POST /api/sip/{sip_id}/pay", parent(savingsHandler.PaySIP))
	mux.HandleFunc("PUT /api/sip/{sip_id}/pause", parent(savingsHandler.ToggleSIP))

	mux.HandleFunc("POST /api/loans/request", parent(savingsHandler.RequestLoan))
	mux.HandleFunc("GET /api/loans/{kid_id}", parent(savingsHandler.ListLoans))
	mux.HandleFunc("POST /api/loans/{loan_id}/approve", parent(savingsHandler.ApproveLoan))
	mux.HandleFunc("POST /api/loans/{loan_id}/pay", parent(savingsHandler.PayLoan))

	mux.HandleFunc("GET /api/learning/stories", parent(learningHandler.ListStories))
	mux.HandleFunc("GET /api/learning/stories/{story_id}", parent(learningHandler.GetStory))
	mux.HandleFunc("POST /api/learning/complete", parent(learningHandler.CompleteLesson))
	mux.HandleFunc("GET /api/learning/progress/{kid_id}", parent(learningHandler.Progress))

	mux.HandleFunc("GET /api/dashboard/kid/{kid_id}", parent(dashboardHandler.Dashboard))

	// Kid routes; the kid comes from the token
	mux.HandleFunc("GET /api/kid/dashboard", kid(dashboardHandler.Dashboard))
	mux.HandleFunc("GET /api/kid/achievements", kid(dashboardHandler.Achievements))
	mux.HandleFunc("GET /api/kid/wallet", kid(walletHandler.GetWallet))
	mux.HandleFunc("GET /api/kid/transactions", kid(walletHandler.ListTransactions))
	mux.HandleFunc("GET /api/kid/tasks", kid(taskHandler.ListTasks))
	mux.HandleFunc("PUT /api/kid/tasks/{task_id}/complete", kid(taskHandler.CompleteTask))
	mux.HandleFunc("GET /api/kid/goals", kid(savingsHandler.ListGoals))
	mux.HandleFunc("PUT /api/kid/goals/{goal_id}/contribute", kid(savingsHandler.ContributeGoal))
	mux.HandleFunc("GET /api/kid/sip", kid(savingsHandler.ListSIPs))
	mux.HandleFunc("POST /api/kid/sip/{sip_id}/pay", kid(savingsHandler.PaySIP))
	mux.HandleFunc("GET /api/kid/loans", kid(savingsHandler.ListLoans))
	mux.HandleFunc("POST /api/kid/loans/request", kid(savingsHandler.RequestLoan))
	mux.HandleFunc("POST /api/kid/loans/{loan_id}/pay", kid(savingsHandler.PayLoan))
	mux.HandleFunc("GET /api/kid/learning/stories", kid(learningHandler.ListStories))
	mux.HandleFunc("GET /api/kid/learning/stories/{story_id}", kid(learningHandler.GetStory))
	mux.HandleFunc("GET /api/kid/learning/progress", kid(learningHandler.Progress))
	mux.HandleFunc("POST /api/kid/learning/complete", kid(learningHandler.CompleteLesson))

	return middleware.Logging(middleware.CORS(mux))
}
