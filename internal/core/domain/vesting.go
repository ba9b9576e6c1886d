package domain

import "time"

const day = 24 * time.Hour

// VestingEnd returns the instant a purchase unlocks.
func VestingEnd(purchaseDate time.Time, vestingPeriodDays int) time.Time {
	return purchaseDate.Add(time.Duration(vestingPeriodDays) * day)
}

// IsClaimable reports whether now has reached the vesting end.
func IsClaimable(now, vestingEnd time.Time) bool {
	return !now.Before(vestingEnd)
}

// RemainingDays returns the whole days left until vestingEnd, rounded up.
// It is 0 once claimable.
func RemainingDays(now, vestingEnd time.Time) int64 {
	if IsClaimable(now, vestingEnd) {
		return 0
	}
	left := vestingEnd.Sub(now)
	days := int64(left / day)
	if left%day != 0 {
		days++
	}
	return days
}

// VestingStatus is the derived vesting view of a purchase at some instant.
type VestingStatus struct {
	VestingEnd    time.Time `json:"vesting_end_date"`
	RemainingDays int64     `json:"remaining_days"`
	Claimable     bool      `json:"claimable"`
}

// Vesting computes the vesting status of a purchase at now.
func Vesting(purchaseDate time.Time, vestingPeriodDays int, now time.Time) VestingStatus {
	end := VestingEnd(purchaseDate, vestingPeriodDays)
	return VestingStatus{
		VestingEnd:    end,
		RemainingDays: RemainingDays(now, end),
		Claimable:     IsClaimable(now, end),
	}
}
