package service

import (
	"context"

	"kidsmoney/internal/models"
	"kidsmoney/internal/progression"
)

const (
	dashboardRecentTransactions = 10
	dashboardListLimit          = 50
)

// DashboardStats are the headline counters on a kid's dashboard
type DashboardStats struct {
	TotalTasksCompleted int `json:"total_tasks_completed"`
	TotalStoriesRead    int `json:"total_stories_read"`
	ActiveGoalsCount    int `json:"active_goals_count"`
	ActiveSIPsCount     int `json:"active_sips_count"`
}

// Dashboard is the one-call summary of a kid
type Dashboard struct {
	Kid                models.Kid                `json:"kid"`
	Wallet             *models.Wallet            `json:"wallet"`
	LevelInfo          progression.Level         `json:"level_info"`
	NextLevel          *progression.Level        `json:"next_level"`
	ActiveTasks        []models.Task             `json:"active_tasks"`
	RecentTransactions []models.Transaction      `json:"recent_transactions"`
	ActiveGoals        []models.Goal             `json:"active_goals"`
	ActiveSIPs         []models.SIP              `json:"active_sips"`
	ActiveLoans        []models.Loan             `json:"active_loans"`
	LearningProgress   []models.LearningProgress `json:"learning_progress"`
	Stats              DashboardStats            `json:"stats"`
}

// Badge is an unlocked achievement
type Badge struct {
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"desc"`
}

// AchievementStats are the counters badges are earned from
type AchievementStats struct {
	TasksCompleted int `json:"tasks_completed"`
	StoriesRead    int `json:"stories_read"`
	GoalsAchieved  int `json:"goals_achieved"`
	SIPPayments    int `json:"sip_payments"`
	LoanPayments   int `json:"loan_payments"`
}

// Achievements lists a kid's badges and progress
type Achievements struct {
	Badges      []Badge           `json:"badges"`
	Stats       AchievementStats  `json:"stats"`
	LevelInfo   progression.Level `json:"level_info"`
	CreditScore int               `json:"credit_score"`
	XP          int               `json:"xp"`
}

// CreditStarScore is the credit score that earns the Credit Star badge
const CreditStarScore = 700

// DashboardService builds read-only summaries of a kid
type DashboardService struct {
	*core
}

// Dashboard summarises a kid's wallet, open items and progress
func (s *DashboardService) Dashboard(ctx context.Context, actor Actor, kidID string) (*Dashboard, error) {
	kid, err := s.kidFor(ctx, s.repos, actor, kidID)
	if err != nil {
		return nil, err
	}
	wallet, err := s.repos.Wallets.GetByKidID(ctx, kidID)
	if err != nil {
		return nil, err
	}

	tasks, err := s.repos.Tasks.ListByKid(ctx, kidID, "")
	if err != nil {
		return nil, err
	}
	txns, err := s.repos.Transactions.ListByKid(ctx, kidID, dashboardRecentTransactions)
	if err != nil {
		return nil, err
	}
	goals, err := s.repos.Goals.ListByKid(ctx, kidID)
	if err != nil {
		return nil, err
	}
	sips, err := s.repos.SIPs.ListByKid(ctx, kidID)
	if err != nil {
		return nil, err
	}
	loans, err := s.repos.Loans.ListByKid(ctx, kidID)
	if err != nil {
		return nil, err
	}
	learning, err := s.repos.Learning.ListByKid(ctx, kidID)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		Kid:                *kid,
		Wallet:             wallet,
		LevelInfo:          progression.LevelForXP(kid.XP),
		RecentTransactions: txns,
		ActiveTasks:        []models.Task{},
		ActiveGoals:        []models.Goal{},
		ActiveSIPs:         []models.SIP{},
		ActiveLoans:        []models.Loan{},
		LearningProgress:   learning,
	}
	if actor.IsKid() {
		d.Kid = kid.WithoutPIN()
	}
	d.NextLevel = progression.NextLevel(d.LevelInfo.Level)

	for i := range tasks {
		if tasks[i].Status == models.TaskApproved {
			d.Stats.TotalTasksCompleted++
		}
		if tasks[i].IsOpen() && len(d.ActiveTasks) < dashboardListLimit {
			d.ActiveTasks = append(d.ActiveTasks, tasks[i])
		}
	}
	for _, g := range goals {
		if g.Status == models.GoalActive && len(d.ActiveGoals) < dashboardListLimit {
			d.ActiveGoals = append(d.ActiveGoals, g)
		}
	}
	for _, sip := range sips {
		if sip.Status == models.SIPActive && len(d.ActiveSIPs) < dashboardListLimit {
			d.ActiveSIPs = append(d.ActiveSIPs, sip)
		}
	}
	for i := range loans {
		if loans[i].IsOpen() && len(d.ActiveLoans) < dashboardListLimit {
			d.ActiveLoans = append(d.ActiveLoans, loans[i])
		}
	}
	d.Stats.TotalStoriesRead = len(learning)
	d.Stats.ActiveGoalsCount = len(d.ActiveGoals)
	d.Stats.ActiveSIPsCount = len(d.ActiveSIPs)
	return d, nil
}

// Achievements computes the badges a kid has unlocked
func (s *DashboardService) Achievements(ctx context.Context, actor Actor, kidID string) (*Achievements, error) {
	kid, err := s.kidFor(ctx, s.repos, actor, kidID)
	if err != nil {
		return nil, err
	}

	var stats AchievementStats
	if stats.TasksCompleted, err = s.repos.Tasks.CountByStatus(ctx, kidID, models.TaskApproved); err != nil {
		return nil, err
	}
	if stats.GoalsAchieved, err = s.repos.Goals.CountByStatus(ctx, kidID, models.GoalCompleted); err != nil {
		return nil, err
	}
	learning, err := s.repos.Learning.ListByKid(ctx, kidID)
	if err != nil {
		return nil, err
	}
	stats.StoriesRead = len(learning)

	sips, err := s.repos.SIPs.ListByKid(ctx, kidID)
	if err != nil {
		return nil, err
	}
	for _, sip := range sips {
		stats.SIPPayments += sip.PaymentsMade
	}
	loans, err := s.repos.Loans.ListByKid(ctx, kidID)
	if err != nil {
		return nil, err
	}
	for _, l := range loans {
		stats.LoanPayments += l.PaymentsMade
	}

	allStories := 0
	if s.catalog != nil {
		allStories = s.catalog.StoryCount()
	}

	return &Achievements{
		Badges:      badgesFor(stats, kid.CreditScore, allStories),
		Stats:       stats,
		LevelInfo:   progression.LevelForXP(kid.XP),
		CreditScore: kid.CreditScore,
		XP:          kid.XP,
	}, nil
}

func badgesFor(st AchievementStats, creditScore, allStories int) []Badge {
	rules := []struct {
		earned bool
		badge  Badge
	}{
		{st.TasksCompleted >= 1, Badge{"First Task", "check-circle", "Completed your first task"}},
		{st.TasksCompleted >= 10, Badge{"Task Pro", "check-square", "Completed 10 tasks"}},
		{st.StoriesRead >= 1, Badge{"Bookworm", "book-open", "Read your first story"}},
		{allStories > 0 && st.StoriesRead >= allStories, Badge{"Scholar", "graduation-cap", "Read all stories"}},
		{st.GoalsAchieved >= 1, Badge{"Goal Getter", "target", "Achieved your first goal"}},
		{st.SIPPayments >= 3, Badge{"Investor", "trending-up", "Made 3 SIP payments"}},
		{st.LoanPayments >= 1, Badge{"Responsible", "shield", "Made your first EMI payment"}},
		{creditScore >= CreditStarScore, Badge{"Credit Star", "star", "Credit score above 700"}},
	}

	badges := []Badge{}
	for _, r := range rules {
		if r.earned {
			badges = append(badges, r.badge)
		}
	}
	return badges
}
