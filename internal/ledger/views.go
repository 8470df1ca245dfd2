package ledger

import (
	"github.com/neducation/spadays/internal/catalog"
	"github.com/neducation/spadays/internal/model"
)

// DailyBonusView describes today's login bonus for the client.
type DailyBonusView struct {
	Amount    int `json:"amount"`
	Claimable bool `json:"claimable"`
}

// NextRewardView is the cheapest reward not yet affordable, used for the
// progress ring on the home screen.
type NextRewardView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Cost        int    `json:"cost"`
	StarsNeeded int    `json:"stars_needed"`
}

// Snapshot is a read-only copy of the ledger plus derived display state.
// Visits are newest-first and truncated to the requested limit.
type Snapshot struct {
	Balance           int                  `json:"balance"`
	LifetimeEarned    int                  `json:"lifetime_earned"`
	TotalVisits       int                  `json:"total_visits"`
	Visits            []model.VisitRecord  `json:"visits"`
	Vouchers          []model.Voucher      `json:"vouchers"`
	DailyAwardedToday int                  `json:"daily_awarded_today"`
	DailyCapRemaining int                  `json:"daily_cap_remaining"`
	DailyCapReached   bool                 `json:"daily_cap_reached"`
	LoginStreak       int                  `json:"login_streak"`
	TotalLoginDays    int                  `json:"total_login_days"`
	DailyBonus        DailyBonusView       `json:"daily_bonus"`
	WeeklyProgress    model.WeeklyProgress `json:"weekly_progress"`
	StreakWeeks       int                  `json:"streak_weeks"`
	NextReward        *NextRewardView      `json:"next_reward"`
}

// Milestone is a display-only streak badge. Reached is purely a streak
// comparison; there is no claim action and no currency grant.
type Milestone struct {
	Days    int    `json:"days"`
	Title   string `json:"title"`
	Reached bool   `json:"reached"`
}

var milestones = []struct {
	days  int
	title string
}{
	{3, "Warm Towel"},
	{7, "Glow Week"},
	{14, "Fortnight of Calm"},
	{30, "Radiant Month"},
}

// Challenge is one of the fixed weekly challenges. Completion is display
// state only; the reward value is shown but never auto-credited.
type Challenge struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Target    int    `json:"target"`
	Progress  int    `json:"progress"`
	Reward    int    `json:"reward"`
	Completed bool   `json:"completed"`
}

// Snapshot returns the current ledger view. The weekly tracker rolls over
// first so a stale week is never shown; visit history keeps at most limit
// entries (0 means all).
func (s *Service) Snapshot(limit int) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	if s.rollWeekLocked(now) {
		s.persist()
	}

	today := model.DateOf(now)

	// Cap fields reflect today even if the stored tracker is stale.
	awardedToday := s.state.DailyAwardedToday
	if s.state.LastAwardDate != today {
		awardedToday = 0
	}
	remaining := DailyCap - awardedToday
	if remaining < 0 {
		remaining = 0
	}

	visits := make([]model.VisitRecord, 0, len(s.state.Visits))
	for i := len(s.state.Visits) - 1; i >= 0; i-- {
		visits = append(visits, s.state.Visits[i])
		if limit > 0 && len(visits) >= limit {
			break
		}
	}

	snap := Snapshot{
		Balance:           s.state.Balance,
		LifetimeEarned:    s.state.LifetimeEarned,
		TotalVisits:       len(s.state.Visits),
		Visits:            visits,
		Vouchers:          append([]model.Voucher{}, s.state.Vouchers...),
		DailyAwardedToday: awardedToday,
		DailyCapRemaining: remaining,
		DailyCapReached:   remaining == 0,
		LoginStreak:       s.state.LoginStreak,
		TotalLoginDays:    s.state.TotalLoginDays,
		DailyBonus: DailyBonusView{
			Amount:    dailyBonusAmount(s.state.LoginStreak),
			Claimable: !s.state.DailyBonusClaimed || s.state.LastDailyBonusDate != today,
		},
		WeeklyProgress: model.WeeklyProgress{
			Visits:       s.state.WeeklyProgress.Visits,
			StarsEarned:  s.state.WeeklyProgress.StarsEarned,
			ServicesUsed: s.state.WeeklyProgress.ServicesUsed.Clone(),
			WeekStart:    s.state.WeeklyProgress.WeekStart,
		},
		StreakWeeks: s.state.StreakWeeksLegacy,
	}

	if next, ok := catalog.NextReward(s.state.Balance); ok {
		snap.NextReward = &NextRewardView{
			ID:          next.ID,
			Name:        next.Name,
			Cost:        next.Cost,
			StarsNeeded: next.Cost - s.state.Balance,
		}
	}

	return snap
}

// StreakMilestones returns the fixed badge thresholds with their reached
// state for the current login streak.
func (s *Service) StreakMilestones() []Milestone {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Milestone, 0, len(milestones))
	for _, m := range milestones {
		out = append(out, Milestone{
			Days:    m.days,
			Title:   m.title,
			Reached: s.state.LoginStreak >= m.days,
		})
	}
	return out
}

// WeeklyChallenges returns the three fixed challenges with progress read
// from the weekly tracker. The week rolls over first, so progress from a
// previous week never bleeds in.
func (s *Service) WeeklyChallenges() []Challenge {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rollWeekLocked(s.clock.Now()) {
		s.persist()
	}

	wp := s.state.WeeklyProgress
	challenges := []Challenge{
		{ID: "five-visits", Title: "Log 5 visits this week", Target: 5, Progress: wp.Visits, Reward: 150},
		{ID: "thousand-stars", Title: "Earn 1,000 stars this week", Target: 1000, Progress: wp.StarsEarned, Reward: 200},
		{ID: "six-services", Title: "Try 6 different services", Target: 6, Progress: wp.ServicesUsed.Len(), Reward: 175},
	}
	for i := range challenges {
		challenges[i].Completed = challenges[i].Progress >= challenges[i].Target
	}
	return challenges
}
