package ledger

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/neducation/spadays/internal/model"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

// advance moves the clock forward by the given number of days, keeping
// the time of day.
func (c *fakeClock) advance(days int) {
	c.now = c.now.AddDate(0, 0, days)
}

type fixedRand struct {
	v float64
}

func (r fixedRand) Float64() float64 { return r.v }

type memStore struct {
	state    *model.LedgerState
	saves    int
	failSave bool
}

func (m *memStore) Load() (*model.LedgerState, error) { return m.state, nil }

func (m *memStore) Save(s *model.LedgerState) error {
	if m.failSave {
		return errors.New("disk full")
	}
	m.state = s
	m.saves++
	return nil
}

// newTestService returns a service at the given instant with the glitter
// draw pinned to "miss".
func newTestService(t *testing.T, now time.Time) (*Service, *fakeClock, *memStore) {
	t.Helper()
	clock := &fakeClock{now: now}
	st := &memStore{}
	svc := New(st, clock, fixedRand{v: 0.99}, slog.Default())
	return svc, clock, st
}

// wednesday is an ordinary mid-week, mid-month instant. Its week started
// on Sunday 2026-08-30.
var wednesday = time.Date(2026, 9, 2, 14, 0, 0, 0, time.UTC)

func TestAwardVisitCappedAtDailyLimit(t *testing.T) {
	svc, _, _ := newTestService(t, wednesday)

	// Raw total 750 (600 base + 75 combo + 75 perfect prep), cap 625.
	record := svc.AwardVisit(
		[]string{"nail-session", "nail-fill", "massage"},
		Modifiers{PerfectPrep: true},
	)

	if record.AwardedStars != 625 {
		t.Errorf("awarded = %d, want 625", record.AwardedStars)
	}
	if svc.state.Balance != 625 {
		t.Errorf("balance = %d, want 625", svc.state.Balance)
	}
	if svc.state.LifetimeEarned != 625 {
		t.Errorf("lifetime = %d, want 625", svc.state.LifetimeEarned)
	}
	if svc.state.DailyAwardedToday != 625 {
		t.Errorf("daily awarded = %d, want 625", svc.state.DailyAwardedToday)
	}
}

func TestDailyCapAcrossSequenceOfAwards(t *testing.T) {
	svc, _, _ := newTestService(t, wednesday)

	// 200 + 200 + 200 = 600, then only 25 of the fourth, then nothing.
	wantAwarded := []int{200, 200, 200, 25, 0}
	for i, want := range wantAwarded {
		record := svc.AwardSingleService("massage")
		if record.AwardedStars != want {
			t.Errorf("award %d: awarded = %d, want %d", i+1, record.AwardedStars, want)
		}
		if svc.state.DailyAwardedToday > DailyCap {
			t.Fatalf("award %d: daily awarded %d exceeds cap", i+1, svc.state.DailyAwardedToday)
		}
	}

	// Zero-star awards are still recorded.
	if got := len(svc.state.Visits); got != 5 {
		t.Errorf("visit count = %d, want 5", got)
	}
	if svc.state.Balance != 625 {
		t.Errorf("balance = %d, want 625", svc.state.Balance)
	}
}

func TestDailyCapResetsOnNewDay(t *testing.T) {
	svc, clock, _ := newTestService(t, wednesday)

	for i := 0; i < 4; i++ {
		svc.AwardSingleService("massage")
	}
	if svc.state.DailyAwardedToday != DailyCap {
		t.Fatalf("daily awarded = %d, want %d", svc.state.DailyAwardedToday, DailyCap)
	}

	clock.advance(1)
	record := svc.AwardSingleService("massage")
	if record.AwardedStars != 200 {
		t.Errorf("awarded = %d, want 200 after midnight reset", record.AwardedStars)
	}
	if svc.state.DailyAwardedToday != 200 {
		t.Errorf("daily awarded = %d, want 200", svc.state.DailyAwardedToday)
	}
}

func TestUnknownServiceAwardsZeroButRecords(t *testing.T) {
	svc, _, _ := newTestService(t, wednesday)

	record := svc.AwardSingleService("hot-stone")
	if record.AwardedStars != 0 {
		t.Errorf("awarded = %d, want 0", record.AwardedStars)
	}
	if len(svc.state.Visits) != 1 {
		t.Fatalf("visit count = %d, want 1", len(svc.state.Visits))
	}
}

func TestLuckyGlitterDraw(t *testing.T) {
	clock := &fakeClock{now: wednesday}
	svc := New(&memStore{}, clock, fixedRand{v: 0.0}, slog.Default())

	record := svc.AwardSingleService("massage")
	if record.AwardedStars != 275 {
		t.Errorf("awarded = %d, want 275 (200 + 75 glitter)", record.AwardedStars)
	}
	if !record.Bonuses.LuckyGlitter {
		t.Error("expected lucky glitter flag")
	}
}

func TestPreviewDoesNotMutateOrDraw(t *testing.T) {
	clock := &fakeClock{now: wednesday}
	st := &memStore{}
	// Rand always hits, but the preview must never draw.
	svc := New(st, clock, fixedRand{v: 0.0}, slog.Default())

	total := svc.PreviewVisitTotal([]string{"massage"}, Modifiers{})
	if total != 200 {
		t.Errorf("preview total = %d, want 200", total)
	}
	if svc.state.Balance != 0 || len(svc.state.Visits) != 0 || st.saves != 0 {
		t.Error("preview must not change state or persist")
	}
}

func TestAwardedStarsNeverExceedsRawTotal(t *testing.T) {
	svc, _, _ := newTestService(t, wednesday)

	for i := 0; i < 6; i++ {
		raw := ComputeVisitTotal([]string{"massage"}, Modifiers{}, svc.clock.Now())
		record := svc.AwardSingleService("massage")
		if record.AwardedStars > raw {
			t.Fatalf("award %d: awarded %d exceeds raw total %d", i+1, record.AwardedStars, raw)
		}
	}
}

func TestLoginStreakSequence(t *testing.T) {
	svc, clock, _ := newTestService(t, wednesday)

	svc.RecordLogin() // day 1
	if svc.state.LoginStreak != 1 {
		t.Errorf("day 1: streak = %d, want 1", svc.state.LoginStreak)
	}

	clock.advance(1)
	svc.RecordLogin() // day 2, consecutive
	if svc.state.LoginStreak != 2 {
		t.Errorf("day 2: streak = %d, want 2", svc.state.LoginStreak)
	}

	clock.advance(2)
	svc.RecordLogin() // day 4, gap broke the streak
	if svc.state.LoginStreak != 1 {
		t.Errorf("day 4: streak = %d, want 1", svc.state.LoginStreak)
	}

	if svc.state.TotalLoginDays != 3 {
		t.Errorf("total login days = %d, want 3", svc.state.TotalLoginDays)
	}
}

func TestRecordLoginIdempotentWithinDay(t *testing.T) {
	svc, _, _ := newTestService(t, wednesday)

	svc.RecordLogin()
	svc.RecordLogin()

	if svc.state.LoginStreak != 1 {
		t.Errorf("streak = %d, want 1", svc.state.LoginStreak)
	}
	if svc.state.TotalLoginDays != 1 {
		t.Errorf("total login days = %d, want 1", svc.state.TotalLoginDays)
	}
}

func TestDailyBonusAmounts(t *testing.T) {
	tests := []struct {
		streak int
		want   int
	}{
		{0, 50},
		{1, 55},
		{10, 100},
		{20, 150},
		{25, 150}, // multiplier capped at 2.0
	}

	for _, tt := range tests {
		if got := dailyBonusAmount(tt.streak); got != tt.want {
			t.Errorf("streak %d: amount = %d, want %d", tt.streak, got, tt.want)
		}
	}
}

func TestClaimDailyBonus(t *testing.T) {
	svc, clock, _ := newTestService(t, wednesday)

	amount, err := svc.ClaimDailyBonus()
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if amount != 50 {
		t.Errorf("amount = %d, want 50 at streak 0", amount)
	}
	if svc.state.Balance != 50 || svc.state.LifetimeEarned != 50 {
		t.Errorf("balance/lifetime = %d/%d, want 50/50", svc.state.Balance, svc.state.LifetimeEarned)
	}

	// Second claim the same day fails and changes nothing.
	if _, err := svc.ClaimDailyBonus(); !errors.Is(err, ErrAlreadyClaimed) {
		t.Fatalf("second claim err = %v, want ErrAlreadyClaimed", err)
	}
	if svc.state.Balance != 50 {
		t.Errorf("balance = %d after failed claim, want 50", svc.state.Balance)
	}

	// Next day it is claimable again.
	clock.advance(1)
	if _, err := svc.ClaimDailyBonus(); err != nil {
		t.Fatalf("next-day claim: %v", err)
	}
}

func TestDailyBonusBypassesVisitCap(t *testing.T) {
	svc, _, _ := newTestService(t, wednesday)

	for i := 0; i < 4; i++ {
		svc.AwardSingleService("massage")
	}
	if svc.state.DailyAwardedToday != DailyCap {
		t.Fatalf("daily awarded = %d, want cap", svc.state.DailyAwardedToday)
	}

	amount, err := svc.ClaimDailyBonus()
	if err != nil {
		t.Fatalf("claim at cap: %v", err)
	}
	if svc.state.Balance != DailyCap+amount {
		t.Errorf("balance = %d, want %d", svc.state.Balance, DailyCap+amount)
	}
	// The visit cap tracker is untouched by the bonus path.
	if svc.state.DailyAwardedToday != DailyCap {
		t.Errorf("daily awarded = %d, want %d", svc.state.DailyAwardedToday, DailyCap)
	}
}

func TestRedeemUnknownReward(t *testing.T) {
	svc, _, _ := newTestService(t, wednesday)

	if _, err := svc.Redeem("free-yacht"); !errors.Is(err, ErrUnknownReward) {
		t.Fatalf("err = %v, want ErrUnknownReward", err)
	}
}

func TestRedeemInsufficientBalance(t *testing.T) {
	svc, _, _ := newTestService(t, wednesday)
	svc.AwardSingleService("massage") // balance 200

	_, err := svc.Redeem("cute-addon") // costs 625
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("err = %v, want ErrInsufficientBalance", err)
	}
	if svc.state.Balance != 200 {
		t.Errorf("balance = %d after failed redeem, want 200", svc.state.Balance)
	}
	if len(svc.state.Vouchers) != 0 {
		t.Errorf("voucher count = %d, want 0", len(svc.state.Vouchers))
	}
}

func TestRedeemIssuesVoucher(t *testing.T) {
	svc, clock, _ := newTestService(t, wednesday)

	for i := 0; i < 4; i++ {
		svc.AwardSingleService("massage")
	}
	clock.advance(1)
	for i := 0; i < 4; i++ {
		svc.AwardSingleService("massage")
	}
	// balance 1250 over two days
	lifetime := svc.state.LifetimeEarned

	voucher, err := svc.Redeem("theme-night")
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}

	if voucher.Status != model.VoucherActive {
		t.Errorf("status = %q, want %q", voucher.Status, model.VoucherActive)
	}
	if voucher.RewardName != "Theme Night" {
		t.Errorf("reward name = %q, want %q", voucher.RewardName, "Theme Night")
	}
	if voucher.ExpiresAt != nil {
		t.Error("vouchers must not expire")
	}
	if svc.state.Balance != 0 {
		t.Errorf("balance = %d, want 0", svc.state.Balance)
	}
	// Redemption touches neither lifetime earnings nor the cap tracker.
	if svc.state.LifetimeEarned != lifetime {
		t.Errorf("lifetime = %d, want %d", svc.state.LifetimeEarned, lifetime)
	}
	if svc.state.Balance < 0 {
		t.Fatal("balance went negative")
	}
}

func TestWeeklyProgressAccumulates(t *testing.T) {
	svc, _, _ := newTestService(t, wednesday)

	svc.AwardVisit([]string{"massage", "face-mask"}, Modifiers{})
	svc.AwardSingleService("massage")

	wp := svc.state.WeeklyProgress
	if wp.Visits != 2 {
		t.Errorf("weekly visits = %d, want 2", wp.Visits)
	}
	if wp.StarsEarned != 350+200 {
		t.Errorf("weekly stars = %d, want 550", wp.StarsEarned)
	}
	if wp.ServicesUsed.Len() != 2 {
		t.Errorf("distinct services = %d, want 2", wp.ServicesUsed.Len())
	}
	wantStart := model.Date{Year: 2026, Month: 8, Day: 30} // Sunday
	if wp.WeekStart != wantStart {
		t.Errorf("week start = %v, want %v", wp.WeekStart, wantStart)
	}
}

func TestWeeklyProgressResetsOnNewWeek(t *testing.T) {
	svc, clock, _ := newTestService(t, wednesday)

	svc.AwardVisit([]string{"massage", "face-mask"}, Modifiers{})

	clock.advance(7) // following Wednesday, new week
	svc.AwardSingleService("ambience")

	wp := svc.state.WeeklyProgress
	if wp.Visits != 1 {
		t.Errorf("weekly visits = %d, want 1 after rollover", wp.Visits)
	}
	if wp.StarsEarned != 75 {
		t.Errorf("weekly stars = %d, want 75", wp.StarsEarned)
	}
	if wp.ServicesUsed.Len() != 1 || !wp.ServicesUsed.Contains("ambience") {
		t.Errorf("services used = %v, want [ambience]", wp.ServicesUsed.IDs())
	}
	wantStart := model.Date{Year: 2026, Month: 9, Day: 6}
	if wp.WeekStart != wantStart {
		t.Errorf("week start = %v, want %v", wp.WeekStart, wantStart)
	}
}

func TestLegacyStreakFlagSetOnVisit(t *testing.T) {
	svc, _, _ := newTestService(t, wednesday)

	if svc.state.StreakWeeksLegacy != 0 {
		t.Fatalf("legacy streak = %d before any visit", svc.state.StreakWeeksLegacy)
	}
	svc.AwardSingleService("massage")
	if svc.state.StreakWeeksLegacy != 1 {
		t.Errorf("legacy streak = %d, want 1", svc.state.StreakWeeksLegacy)
	}
}

func TestStreakMilestones(t *testing.T) {
	svc, _, _ := newTestService(t, wednesday)
	svc.state.LoginStreak = 7

	ms := svc.StreakMilestones()
	if len(ms) != 4 {
		t.Fatalf("milestone count = %d, want 4", len(ms))
	}

	wantReached := map[int]bool{3: true, 7: true, 14: false, 30: false}
	for _, m := range ms {
		if m.Reached != wantReached[m.Days] {
			t.Errorf("milestone %d: reached = %v, want %v", m.Days, m.Reached, wantReached[m.Days])
		}
	}
}

func TestWeeklyChallenges(t *testing.T) {
	svc, _, _ := newTestService(t, wednesday)

	// Two visits, six distinct services, 625 capped stars.
	svc.AwardVisit([]string{"nail-session", "nail-fill", "massage"}, Modifiers{})
	svc.AwardVisit([]string{"bubble-bath", "face-mask", "ambience"}, Modifiers{})

	byID := map[string]Challenge{}
	for _, c := range svc.WeeklyChallenges() {
		byID[c.ID] = c
	}

	if c := byID["five-visits"]; c.Progress != 2 || c.Completed {
		t.Errorf("five-visits: progress=%d completed=%v, want 2/false", c.Progress, c.Completed)
	}
	if c := byID["six-services"]; c.Progress != 6 || !c.Completed {
		t.Errorf("six-services: progress=%d completed=%v, want 6/true", c.Progress, c.Completed)
	}
	if c := byID["thousand-stars"]; c.Target != 1000 || c.Reward != 200 {
		t.Errorf("thousand-stars: target=%d reward=%d, want 1000/200", c.Target, c.Reward)
	}
}

func TestChallengeCompletionDoesNotCreditReward(t *testing.T) {
	svc, _, _ := newTestService(t, wednesday)

	for i := 0; i < 5; i++ {
		svc.AwardSingleService("ambience")
	}

	var fiveVisits Challenge
	for _, c := range svc.WeeklyChallenges() {
		if c.ID == "five-visits" {
			fiveVisits = c
		}
	}
	if !fiveVisits.Completed {
		t.Fatal("expected five-visits completed")
	}
	// Completion is display-only; 5 * 75 stars and nothing more.
	if svc.state.Balance != 375 {
		t.Errorf("balance = %d, want 375", svc.state.Balance)
	}
}

func TestSnapshotViews(t *testing.T) {
	svc, _, _ := newTestService(t, wednesday)

	svc.RecordLogin()
	svc.AwardSingleService("massage")

	snap := svc.Snapshot(1)

	if snap.Balance != 200 {
		t.Errorf("balance = %d, want 200", snap.Balance)
	}
	if snap.TotalVisits != 1 || len(snap.Visits) != 1 {
		t.Errorf("visits = %d/%d, want 1/1", snap.TotalVisits, len(snap.Visits))
	}
	if snap.DailyCapRemaining != DailyCap-200 {
		t.Errorf("cap remaining = %d, want %d", snap.DailyCapRemaining, DailyCap-200)
	}
	if snap.NextReward == nil {
		t.Fatal("expected a next reward")
	}
	if snap.NextReward.ID != "cute-addon" || snap.NextReward.StarsNeeded != 425 {
		t.Errorf("next reward = %s/%d, want cute-addon/425", snap.NextReward.ID, snap.NextReward.StarsNeeded)
	}
	if !snap.DailyBonus.Claimable || snap.DailyBonus.Amount != 55 {
		t.Errorf("daily bonus = %+v, want claimable 55", snap.DailyBonus)
	}
}

func TestSnapshotHistoryNewestFirst(t *testing.T) {
	svc, clock, _ := newTestService(t, wednesday)

	svc.AwardSingleService("massage")
	clock.advance(1)
	svc.AwardSingleService("ambience")

	snap := svc.Snapshot(0)
	if len(snap.Visits) != 2 {
		t.Fatalf("visit count = %d, want 2", len(snap.Visits))
	}
	if snap.Visits[0].Services[0] != "ambience" {
		t.Errorf("first history entry = %v, want the ambience visit", snap.Visits[0].Services)
	}
}

func TestSnapshotCapFieldsOnNewDay(t *testing.T) {
	svc, clock, _ := newTestService(t, wednesday)

	for i := 0; i < 4; i++ {
		svc.AwardSingleService("massage")
	}
	clock.advance(1)

	snap := svc.Snapshot(0)
	if snap.DailyAwardedToday != 0 {
		t.Errorf("daily awarded = %d, want 0 on a fresh day", snap.DailyAwardedToday)
	}
	if snap.DailyCapReached {
		t.Error("cap should not be reached on a fresh day")
	}
}

func TestSaveFailureKeepsInMemoryEffect(t *testing.T) {
	clock := &fakeClock{now: wednesday}
	st := &memStore{failSave: true}
	svc := New(st, clock, fixedRand{v: 0.99}, slog.Default())

	record := svc.AwardSingleService("massage")
	if record.AwardedStars != 200 {
		t.Errorf("awarded = %d, want 200", record.AwardedStars)
	}
	if svc.state.Balance != 200 {
		t.Errorf("balance = %d, want 200 despite failed save", svc.state.Balance)
	}
}

func TestLoadedStateDrivesService(t *testing.T) {
	clock := &fakeClock{now: wednesday}
	prior := model.NewLedgerState()
	prior.Balance = 500
	prior.LoginStreak = 6
	prior.LastLoginDate = model.DateOf(wednesday.AddDate(0, 0, -1))
	st := &memStore{state: prior}

	svc := New(st, clock, fixedRand{v: 0.99}, slog.Default())
	svc.RecordLogin()

	if svc.state.LoginStreak != 7 {
		t.Errorf("streak = %d, want 7 continuing from loaded state", svc.state.LoginStreak)
	}
	if svc.state.Balance != 500 {
		t.Errorf("balance = %d, want 500", svc.state.Balance)
	}
}

func TestExportRestoreRoundTrip(t *testing.T) {
	svc, _, _ := newTestService(t, wednesday)
	svc.AwardVisit([]string{"massage", "face-mask"}, Modifiers{AestheticMatch: true})
	svc.RecordLogin()

	data, err := svc.ExportState()
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	other, _, _ := newTestService(t, wednesday)
	if err := other.RestoreState(data); err != nil {
		t.Fatalf("restore: %v", err)
	}

	if other.state.Balance != svc.state.Balance {
		t.Errorf("balance = %d, want %d", other.state.Balance, svc.state.Balance)
	}
	if other.state.WeeklyProgress.ServicesUsed.Len() != 2 {
		t.Errorf("services used = %d, want 2", other.state.WeeklyProgress.ServicesUsed.Len())
	}
	if other.state.LastLoginDate != svc.state.LastLoginDate {
		t.Errorf("last login = %v, want %v", other.state.LastLoginDate, svc.state.LastLoginDate)
	}
}

func TestRestoreRejectsGarbage(t *testing.T) {
	svc, _, _ := newTestService(t, wednesday)
	svc.AwardSingleService("massage")

	if err := svc.RestoreState([]byte("not json")); err == nil {
		t.Fatal("expected error for invalid document")
	}
	if svc.state.Balance != 200 {
		t.Errorf("balance = %d, want 200 after rejected restore", svc.state.Balance)
	}
}
