package model

// WeeklyProgress aggregates visit activity for the current tracked week.
// WeekStart is the Sunday the week began; whenever a ledger operation
// runs in a later week the counters reset to zero first.
type WeeklyProgress struct {
	Visits       int        `json:"visits"`
	StarsEarned  int        `json:"stars_earned"`
	ServicesUsed ServiceSet `json:"services_used"`
	WeekStart    Date       `json:"week_start"`
}

// LedgerState is the single persisted aggregate for the tracker. It is
// owned by ledger.Service and mutated only through its operations.
type LedgerState struct {
	Balance        int           `json:"balance"`
	LifetimeEarned int           `json:"lifetime_earned"`
	Visits         []VisitRecord `json:"visits"`
	Vouchers       []Voucher     `json:"vouchers"`

	// Daily visit-award cap tracking.
	DailyAwardedToday int  `json:"daily_awarded_today"`
	LastAwardDate     Date `json:"last_award_date"`

	// Login streak tracking.
	LoginStreak    int  `json:"login_streak"`
	LastLoginDate  Date `json:"last_login_date"`
	TotalLoginDays int  `json:"total_login_days"`

	// Daily login bonus tracking (a separate, uncapped currency path).
	DailyBonusClaimed  bool `json:"daily_bonus_claimed"`
	LastDailyBonusDate Date `json:"last_daily_bonus_date"`

	WeeklyProgress WeeklyProgress `json:"weekly_progress"`

	// Week-granularity visit flag from an earlier revision of the app.
	// Kept alongside LoginStreak; the two are not reconciled.
	StreakWeeksLegacy int `json:"streak_weeks"`
}

// NewLedgerState returns the zero-value default state used on first run
// or when the persisted blob is absent or unreadable.
func NewLedgerState() *LedgerState {
	return &LedgerState{
		Visits:   []VisitRecord{},
		Vouchers: []Voucher{},
		WeeklyProgress: WeeklyProgress{
			ServicesUsed: NewServiceSet(),
		},
	}
}

// Normalize fills nil collections after deserialization so callers never
// see a nil slice or set.
func (s *LedgerState) Normalize() {
	if s.Visits == nil {
		s.Visits = []VisitRecord{}
	}
	if s.Vouchers == nil {
		s.Vouchers = []Voucher{}
	}
	if s.WeeklyProgress.ServicesUsed == nil {
		s.WeeklyProgress.ServicesUsed = NewServiceSet()
	}
}
