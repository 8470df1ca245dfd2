package model

import "time"

// VisitBonuses records which bonus modifiers applied to a visit.
// Photos holds the raw count entered by the user, not the bonus amount.
type VisitBonuses struct {
	AestheticMatch bool `json:"aesthetic_match,omitempty"`
	PerfectPrep    bool `json:"perfect_prep,omitempty"`
	Photos         int  `json:"photos,omitempty"`
	FirstOfMonth   bool `json:"first_of_month,omitempty"`
	LuckyGlitter   bool `json:"lucky_glitter,omitempty"`
}

// VisitRecord is one awarded spa visit. Records are immutable once
// appended to the ledger. AwardedStars is the amount actually credited
// after the daily cap, which may be less than the computed visit total.
type VisitRecord struct {
	ID           int64        `json:"id"` // creation timestamp in unix millis
	Date         time.Time    `json:"date"`
	Services     []string     `json:"services"`
	Bonuses      VisitBonuses `json:"bonuses"`
	AwardedStars int          `json:"awarded_stars"`
	Notes        string       `json:"notes"`
}
