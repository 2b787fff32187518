// Package rewards derives loyalty balances from booking history. Everything
// here is pure: balances are recomputed from a snapshot on every read and the
// only stored number is the cumulative amount spent.
package rewards

import (
	"errors"
	"math"
	"strings"

	"concierge/pkg/model"
)

var (
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrUnknownTier        = errors.New("unknown membership tier")
	ErrUnknownReward      = errors.New("unknown reward")
)

type Tier string

const (
	Bronze   Tier = model.TierBronze
	Silver   Tier = model.TierSilver
	Gold     Tier = model.TierGold
	Platinum Tier = model.TierPlatinum
	Diamond  Tier = model.TierDiamond
)

var multipliers = map[Tier]float64{
	Bronze:   1,
	Silver:   1.2,
	Gold:     1.5,
	Platinum: 2,
	Diamond:  2.5,
}

func Tiers() []Tier {
	return []Tier{Bronze, Silver, Gold, Platinum, Diamond}
}

func ParseTier(s string) (Tier, error) {
	for _, t := range Tiers() {
		if strings.EqualFold(strings.TrimSpace(s), string(t)) {
			return t, nil
		}
	}
	return "", ErrUnknownTier
}

// Multiplier falls back to the Bronze rate for unknown tiers.
func (t Tier) Multiplier() float64 {
	if m, ok := multipliers[t]; ok {
		return m
	}
	return multipliers[Bronze]
}

// PointsForBooking is floor(floor(total/10) * multiplier). Totals that are not
// finite non-negative numbers earn nothing.
func PointsForBooking(total, multiplier float64) int {
	if !finite(total) || !finite(multiplier) || total < 0 || multiplier < 0 {
		return 0
	}
	return int(math.Floor(math.Floor(total/10) * multiplier))
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

type Ledger struct {
	Tier       Tier    `json:"tier"`
	Multiplier float64 `json:"multiplier"`
	Earned     int     `json:"earned"`
	Pending    int     `json:"pending"`
	Spent      int     `json:"spent"`
	Available  int     `json:"available"`
}

func Summarize(bookings []*model.Booking, tier Tier, spent int) Ledger {
	multiplier := tier.Multiplier()
	ledger := Ledger{Tier: tier, Multiplier: multiplier, Spent: max(0, spent)}

	for _, b := range bookings {
		if b == nil {
			continue
		}
		switch b.Status {
		case model.BookingStatusConfirmed:
			ledger.Earned += PointsForBooking(b.Total, multiplier)
		case model.BookingStatusPending:
			ledger.Pending += PointsForBooking(b.Total, multiplier)
		}
	}

	ledger.Available = max(0, ledger.Earned-ledger.Spent)
	return ledger
}

// AvailableBalance counts confirmed bookings only and never goes below zero.
func AvailableBalance(bookings []*model.Booking, multiplier float64, spent int) int {
	earned := 0
	for _, b := range bookings {
		if b != nil && b.Status == model.BookingStatusConfirmed {
			earned += PointsForBooking(b.Total, multiplier)
		}
	}
	return max(0, earned-max(0, spent))
}

type Reward struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Points      int    `json:"points" yaml:"points"`
	Description string `json:"description" yaml:"description"`
}

var DefaultRewards = []Reward{
	{ID: "spa-credit", Name: "Spa Credit", Points: 500, Description: "$50 credit at any partner spa"},
	{ID: "room-upgrade", Name: "Suite Upgrade", Points: 1000, Description: "Complimentary upgrade to the next room category"},
	{ID: "airport-transfer", Name: "Private Airport Transfer", Points: 2500, Description: "Chauffeured transfer to or from the airport"},
	{ID: "yacht-day", Name: "Yacht Day Excursion", Points: 5000, Description: "A full day aboard a crewed yacht"},
	{ID: "jet-weekend", Name: "Private Jet Weekend", Points: 10000, Description: "Round trip private jet for a weekend getaway"},
}

func FindReward(rewards []Reward, id string) (Reward, error) {
	for _, r := range rewards {
		if r.ID == id {
			return r, nil
		}
	}
	return Reward{}, ErrUnknownReward
}

// Redeem returns the new spent total. On ErrInsufficientPoints spent is
// returned unchanged.
func Redeem(reward Reward, balance, spent int) (int, error) {
	if balance < reward.Points {
		return spent, ErrInsufficientPoints
	}
	return spent + reward.Points, nil
}
