// Package catalog holds the static service and reward tables. The tables
// are process-wide constants; there is no admin surface for editing them.
package catalog

// Service is a bookable spa service worth a fixed number of stars.
type Service struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Stars int    `json:"stars"`
}

// Reward is redeemable for stars. Cost never changes at runtime.
type Reward struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Cost int    `json:"cost"`
}

var services = []Service{
	{ID: "nail-session", Name: "Nail Session (full set)", Icon: "💅", Stars: 250},
	{ID: "nail-fill", Name: "Nail Fill / Touch-up", Icon: "💅", Stars: 150},
	{ID: "massage", Name: "Massage (30m)", Icon: "💆‍♀️", Stars: 200},
	{ID: "bubble-bath", Name: "Bubble Bath Setup", Icon: "🛁", Stars: 150},
	{ID: "face-mask", Name: "Face Mask Treatment", Icon: "🧴", Stars: 125},
	{ID: "ambience", Name: "Candlelight / Ambience Pack", Icon: "🕯️", Stars: 75},
	{ID: "snack-tea", Name: "Snack / Tea Service", Icon: "🍵", Stars: 75},
	{ID: "surprise", Name: "Surprise Gesture", Icon: "🎁", Stars: 125},
}

var rewards = []Reward{
	{ID: "cute-addon", Name: "Cute Add-On", Cost: 625},
	{ID: "theme-night", Name: "Theme Night", Cost: 1250},
	{ID: "pamper-pack", Name: "Full Pamper Pack", Cost: 1875},
	{ID: "royal-treatment", Name: "Royal Treatment", Cost: 2500},
}

// Services returns all services in display order.
func Services() []Service {
	out := make([]Service, len(services))
	copy(out, services)
	return out
}

// Rewards returns all rewards ordered by cost.
func Rewards() []Reward {
	out := make([]Reward, len(rewards))
	copy(out, rewards)
	return out
}

// ServiceByID looks up a service. The second return is false for unknown
// ids; callers treat those as worth zero stars rather than erroring.
func ServiceByID(id string) (Service, bool) {
	for _, s := range services {
		if s.ID == id {
			return s, true
		}
	}
	return Service{}, false
}

// RewardByID looks up a reward by id.
func RewardByID(id string) (Reward, bool) {
	for _, r := range rewards {
		if r.ID == id {
			return r, true
		}
	}
	return Reward{}, false
}

// NextReward returns the cheapest reward costing more than balance, or
// false when every reward is already affordable.
func NextReward(balance int) (Reward, bool) {
	for _, r := range rewards {
		if r.Cost > balance {
			return r, true
		}
	}
	return Reward{}, false
}
