package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboard(t *testing.T) {
	f := newFixture(t)
	kid := f.kid(t, "Asha", 200)

	done, err := f.svc.Tasks.Create(f.ctx, f.actor, NewTask{KidID: kid.ID, Title: "Dishes", RewardAmount: 10})
	require.NoError(t, err)
	_, err = f.svc.Tasks.Create(f.ctx, f.actor, NewTask{KidID: kid.ID, Title: "Homework", RewardAmount: 5})
	require.NoError(t, err)
	_, err = f.svc.Tasks.Complete(f.ctx, f.actor, done.ID)
	require.NoError(t, err)
	_, err = f.svc.Tasks.Approve(f.ctx, f.actor, done.ID)
	require.NoError(t, err)

	_, err = f.svc.Goals.Create(f.ctx, f.actor, NewGoal{KidID: kid.ID, Title: "Bike", TargetAmount: 100})
	require.NoError(t, err)
	sip, err := f.svc.SIPs.Create(f.ctx, f.actor, NewSIP{KidID: kid.ID, Amount: 10})
	require.NoError(t, err)
	paused, err := f.svc.SIPs.Create(f.ctx, f.actor, NewSIP{KidID: kid.ID, Amount: 20})
	require.NoError(t, err)
	_, err = f.svc.SIPs.Toggle(f.ctx, f.actor, paused.ID)
	require.NoError(t, err)
	_, err = f.svc.Loans.Request(f.ctx, f.actor, NewLoan{KidID: kid.ID, Amount: 50, Purpose: "Ball"})
	require.NoError(t, err)
	_, err = f.svc.Learning.Complete(f.ctx, f.actor, LessonResult{KidID: kid.ID, StoryID: "story-1", Score: intPtr(3)})
	require.NoError(t, err)

	d, err := f.svc.Dashboard.Dashboard(f.ctx, f.actor, kid.ID)
	require.NoError(t, err)
	assert.Equal(t, "1234", d.Kid.PIN)
	assert.Equal(t, 210.0, d.Wallet.Balance)
	require.Len(t, d.ActiveTasks, 1)
	assert.Equal(t, "Homework", d.ActiveTasks[0].Title)
	require.Len(t, d.ActiveSIPs, 1)
	assert.Equal(t, sip.ID, d.ActiveSIPs[0].ID)
	assert.Len(t, d.ActiveGoals, 1)
	assert.Len(t, d.ActiveLoans, 1)
	assert.Len(t, d.RecentTransactions, 2)
	assert.Len(t, d.LearningProgress, 1)
	assert.Equal(t, DashboardStats{
		TotalTasksCompleted: 1,
		TotalStoriesRead:    1,
		ActiveGoalsCount:    1,
		ActiveSIPsCount:     1,
	}, d.Stats)
	assert.Equal(t, 1, d.LevelInfo.Level)
	require.NotNil(t, d.NextLevel)
	assert.Equal(t, 2, d.NextLevel.Level)

	kidView, err := f.svc.Dashboard.Dashboard(f.ctx, KidActor(kid.ID, f.parent.ID), kid.ID)
	require.NoError(t, err)
	assert.Empty(t, kidView.Kid.PIN)

	_, err = f.svc.Dashboard.Dashboard(f.ctx, f.otherParent(t), kid.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDashboardEmptyListsAreNotNil(t *testing.T) {
	f := newFixture(t)
	kid := f.kid(t, "Asha", 0)

	d, err := f.svc.Dashboard.Dashboard(f.ctx, f.actor, kid.ID)
	require.NoError(t, err)
	assert.NotNil(t, d.ActiveTasks)
	assert.NotNil(t, d.RecentTransactions)
	assert.NotNil(t, d.ActiveLoans)
	assert.NotNil(t, d.LearningProgress)
}

func TestAchievements(t *testing.T) {
	f := newFixture(t)
	kid := f.kid(t, "Asha", 0)

	a, err := f.svc.Dashboard.Achievements(f.ctx, f.actor, kid.ID)
	require.NoError(t, err)
	assert.Empty(t, a.Badges)
	assert.Equal(t, 500, a.CreditScore)

	task, err := f.svc.Tasks.Create(f.ctx, f.actor, NewTask{KidID: kid.ID, Title: "Dishes", RewardAmount: 10, ApprovalRequired: boolPtr(false)})
	require.NoError(t, err)
	_, err = f.svc.Tasks.Complete(f.ctx, f.actor, task.ID)
	require.NoError(t, err)
	_, err = f.svc.Learning.Complete(f.ctx, f.actor, LessonResult{KidID: kid.ID, StoryID: "story-2", Score: intPtr(0)})
	require.NoError(t, err)

	a, err = f.svc.Dashboard.Achievements(f.ctx, KidActor(kid.ID, f.parent.ID), kid.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, a.Stats.TasksCompleted)
	assert.Equal(t, 1, a.Stats.StoriesRead)

	var names []string
	for _, b := range a.Badges {
		names = append(names, b.Name)
	}
	assert.Equal(t, []string{"First Task", "Bookworm"}, names)
}

func TestBadgesFor(t *testing.T) {
	tests := []struct {
		name        string
		stats       AchievementStats
		creditScore int
		allStories  int
		want        []string
	}{
		{"nothing yet", AchievementStats{}, 500, 5, nil},
		{"all stories", AchievementStats{StoriesRead: 5}, 500, 5, []string{"Bookworm", "Scholar"}},
		{"no catalogue", AchievementStats{StoriesRead: 0}, 500, 0, nil},
		{
			"everything",
			AchievementStats{TasksCompleted: 10, StoriesRead: 5, GoalsAchieved: 1, SIPPayments: 3, LoanPayments: 1},
			700, 5,
			[]string{"First Task", "Task Pro", "Bookworm", "Scholar", "Goal Getter", "Investor", "Responsible", "Credit Star"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, b := range badgesFor(tt.stats, tt.creditScore, tt.allStories) {
				got = append(got, b.Name)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
