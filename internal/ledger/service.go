// Package ledger implements the reward ledger: visit scoring, the daily
// award cap, login streaks, the daily login bonus, weekly challenge
// tracking, and reward redemption. All state lives in one LedgerState
// aggregate owned by Service and mutated only under its lock.
package ledger

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/neducation/spadays/internal/catalog"
	"github.com/neducation/spadays/internal/model"
)

// Store is the persistence gateway contract. Load returns (nil, nil) when
// nothing has been saved yet.
type Store interface {
	Load() (*model.LedgerState, error)
	Save(*model.LedgerState) error
}

// Service owns the ledger state and applies every user intent to it.
// Operations are atomic under a single mutex: the cap-check-then-credit
// and claim-check-then-claim sequences must not interleave.
type Service struct {
	mu     sync.Mutex
	state  *model.LedgerState
	store  Store
	clock  Clock
	rand   Rand
	logger *slog.Logger
}

// New loads the persisted state through store and returns a ready
// service. A failed or absent load degrades to the zero-value state; the
// tracker keeps working in memory and saves will be retried on the next
// mutation.
func New(store Store, clock Clock, rng Rand, logger *slog.Logger) *Service {
	state, err := store.Load()
	if err != nil {
		logger.Warn("load ledger state failed, starting fresh", "error", err)
		state = nil
	}
	if state == nil {
		state = model.NewLedgerState()
	}
	state.Normalize()

	return &Service{
		state:  state,
		store:  store,
		clock:  clock,
		rand:   rng,
		logger: logger,
	}
}

// persist writes the current state through the gateway. Durability is
// best-effort: a failed save is logged and the in-memory effect stands.
func (s *Service) persist() {
	if err := s.store.Save(s.state); err != nil {
		s.logger.Error("save ledger state", "error", err)
	}
}

// weekStartOf returns the most recent Sunday on or before t's date.
func weekStartOf(t time.Time) model.Date {
	return model.DateOf(t).AddDays(-int(t.Weekday()))
}

// rollWeekLocked resets weekly progress when the stored week start no
// longer matches the current week. Returns true if a reset happened.
func (s *Service) rollWeekLocked(now time.Time) bool {
	start := weekStartOf(now)
	if s.state.WeeklyProgress.WeekStart == start {
		return false
	}
	s.state.WeeklyProgress = model.WeeklyProgress{
		ServicesUsed: model.NewServiceSet(),
		WeekStart:    start,
	}
	return true
}

// AwardVisit scores the selected services and modifiers, applies the
// daily cap, and appends a visit record. It never fails: unknown service
// ids score zero and a fully capped day produces a zero-star record.
func (s *Service) AwardVisit(serviceIDs []string, mods Modifiers) model.VisitRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	total := ComputeVisitTotal(serviceIDs, mods, now)

	bonuses := model.VisitBonuses{
		AestheticMatch: mods.AestheticMatch,
		PerfectPrep:    mods.PerfectPrep,
		Photos:         mods.Photos,
		FirstOfMonth:   now.Day() == 1,
	}

	// One glitter draw per award attempt, added after the multiplier.
	if s.rand.Float64() < luckyGlitterChance {
		total += luckyGlitterBonus
		bonuses.LuckyGlitter = true
	}

	record := s.creditVisitLocked(now, serviceIDs, bonuses, total)
	s.persist()
	return record
}

// AwardSingleService is the quick-award path: one service, no modifiers.
// With a single service no combo bonus applies.
func (s *Service) AwardSingleService(serviceID string) model.VisitRecord {
	return s.AwardVisit([]string{serviceID}, Modifiers{})
}

// PreviewVisitTotal returns the deterministic total for a proposed visit
// without drawing lucky glitter or touching any state.
func (s *Service) PreviewVisitTotal(serviceIDs []string, mods Modifiers) int {
	return ComputeVisitTotal(serviceIDs, mods, s.clock.Now())
}

// creditVisitLocked applies a computed total under the daily cap and
// records the visit. Caller holds the lock.
func (s *Service) creditVisitLocked(now time.Time, serviceIDs []string, bonuses model.VisitBonuses, total int) model.VisitRecord {
	today := model.DateOf(now)

	// The cap tracker is per calendar date.
	if s.state.LastAwardDate != today {
		s.state.DailyAwardedToday = 0
	}

	remaining := DailyCap - s.state.DailyAwardedToday
	if remaining < 0 {
		remaining = 0
	}
	awarded := total
	if awarded > remaining {
		awarded = remaining
	}

	s.state.Balance += awarded
	s.state.LifetimeEarned += awarded
	s.state.DailyAwardedToday += awarded
	s.state.LastAwardDate = today

	s.rollWeekLocked(now)
	s.state.WeeklyProgress.Visits++
	s.state.WeeklyProgress.StarsEarned += awarded
	s.state.WeeklyProgress.ServicesUsed.Add(serviceIDs...)

	record := model.VisitRecord{
		ID:           now.UnixMilli(),
		Date:         now,
		Services:     append([]string(nil), serviceIDs...),
		Bonuses:      bonuses,
		AwardedStars: awarded,
	}
	s.state.Visits = append(s.state.Visits, record)

	s.updateLegacyStreakLocked(now)

	return record
}

// updateLegacyStreakLocked maintains the coarse "visited this week" flag
// carried over from the first revision of the app.
func (s *Service) updateLegacyStreakLocked(now time.Time) {
	weekStart := weekStartOf(now).Time(now.Location())
	for _, v := range s.state.Visits {
		if !v.Date.Before(weekStart) {
			if s.state.StreakWeeksLegacy < 1 {
				s.state.StreakWeeksLegacy = 1
			}
			return
		}
	}
}

// RecordLogin registers today as a login day. Idempotent per calendar
// day: a repeat call changes nothing. A login on the day after the last
// one extends the streak; any gap resets it to 1. It also makes the daily
// bonus claimable again once the date has rolled over.
func (s *Service) RecordLogin() {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := model.DateOf(s.clock.Now())
	changed := false

	if s.state.LastLoginDate != today {
		if s.state.LastLoginDate == today.AddDays(-1) {
			s.state.LoginStreak++
		} else {
			s.state.LoginStreak = 1
		}
		s.state.LastLoginDate = today
		s.state.TotalLoginDays++
		changed = true
	}

	if s.state.DailyBonusClaimed && s.state.LastDailyBonusDate != today {
		s.state.DailyBonusClaimed = false
		changed = true
	}

	if changed {
		s.persist()
	}
}

// dailyBonusAmount is floor(50 + 50 * min(streak*0.1, 2.0)): base 50 plus
// 5 per streak day, with the multiplier capped at streak 20.
func dailyBonusAmount(streak int) int {
	return 50 + 5*min(streak, 20)
}

// DailyBonusAmount returns what claiming the login bonus would pay today.
func (s *Service) DailyBonusAmount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return dailyBonusAmount(s.state.LoginStreak)
}

// ClaimDailyBonus credits today's login bonus. The credit bypasses the
// visit cap entirely. Returns ErrAlreadyClaimed on a repeat claim within
// the same calendar day.
func (s *Service) ClaimDailyBonus() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := model.DateOf(s.clock.Now())

	// A stale claim flag from a previous day does not block today.
	if s.state.LastDailyBonusDate != today {
		s.state.DailyBonusClaimed = false
	}
	if s.state.DailyBonusClaimed {
		return 0, ErrAlreadyClaimed
	}

	amount := dailyBonusAmount(s.state.LoginStreak)
	s.state.Balance += amount
	s.state.LifetimeEarned += amount
	s.state.DailyBonusClaimed = true
	s.state.LastDailyBonusDate = today

	s.persist()
	return amount, nil
}

// Redeem debits the balance and issues an active, non-expiring voucher.
// The reward name is snapshotted from the catalog at issue time.
// Redemption never touches lifetime earnings or any cap/streak field.
func (s *Service) Redeem(rewardID string) (model.Voucher, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reward, ok := catalog.RewardByID(rewardID)
	if !ok {
		return model.Voucher{}, ErrUnknownReward
	}
	if s.state.Balance < reward.Cost {
		return model.Voucher{}, ErrInsufficientBalance
	}

	s.state.Balance -= reward.Cost

	voucher := model.Voucher{
		ID:         uuid.NewString(),
		RewardID:   reward.ID,
		RewardName: reward.Name,
		Status:     model.VoucherActive,
		IssuedAt:   s.clock.Now(),
	}
	s.state.Vouchers = append(s.state.Vouchers, voucher)

	s.persist()
	return voucher, nil
}
