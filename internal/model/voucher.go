package model

import "time"

// VoucherStatus is the lifecycle state of an issued voucher. Only
// "active" is ever produced; there is no consumption flow.
type VoucherStatus string

const VoucherActive VoucherStatus = "active"

// Voucher is an issued redemption record. RewardName is a snapshot of the
// catalog entry at issue time so renaming a reward never rewrites history.
// ExpiresAt is always nil; vouchers do not expire.
type Voucher struct {
	ID         string        `json:"id"`
	RewardID   string        `json:"reward_id"`
	RewardName string        `json:"reward_name"`
	Status     VoucherStatus `json:"status"`
	IssuedAt   time.Time     `json:"issued_at"`
	ExpiresAt  *time.Time    `json:"expires_at"`
}
