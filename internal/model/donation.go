// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "slices"

// Donation types
const (
	DonationTypeOneTime = "one-time"
	DonationTypeMonthly = "monthly"
)

// Donation statuses. Only completed is ever written by the donation flow.
const (
	DonationStatusCompleted = "completed"
	DonationStatusPending   = "pending"
	DonationStatusFailed    = "failed"
)

// Currency charged by the payment gateway.
const (
	CurrencyCode   = "NGN"
	CurrencySymbol = "₦"
	// MinorUnitsPerMajor converts whole naira to kobo.
	MinorUnitsPerMajor = 100
)

// DefaultDonationAmount is preselected on the donate page.
const DefaultDonationAmount = 50

// PresetAmount is a suggested donation with the impact it funds.
type PresetAmount struct {
	Amount int64
	Impact string
}

// PresetAmounts returns the suggested donation amounts in ascending order.
func PresetAmounts() []PresetAmount {
	return []PresetAmount{
		{Amount: 25, Impact: "Provides seeds and tools for one family's sustainable garden"},
		{Amount: 50, Impact: "Plants 50 trees in deforested areas"},
		{Amount: 100, Impact: "Supplies sanitary pads for young girls"},
		{Amount: 250, Impact: "Funds environmental education for 30 students"},
		{Amount: 500, Impact: "Establishes a community composting system"},
	}
}

// IsValidDonationType checks if a donation type is supported.
func IsValidDonationType(t string) bool {
	return slices.Contains([]string{DonationTypeOneTime, DonationTypeMonthly}, t)
}

// ToMinorUnits converts a whole-currency amount to the gateway's minor units.
func ToMinorUnits(amount int64) int64 {
	return amount * MinorUnitsPerMajor
}
