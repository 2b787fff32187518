package flows

import (
	"sort"

	maestro "concierge/internal/maestro/core"
	"concierge/internal/rewards"
	"concierge/pkg/model"
)

const RewardsOverviewFlow = "rewards_overview"

// RewardsOverview loads the ledger, the reward catalog and the booking history
// concurrently and reports which rewards the balance already covers.
func RewardsOverview() *maestro.Flow {
	return maestro.NewFlow(RewardsOverviewFlow,
		maestro.NewStep("login", Login),
		maestro.NewStep("load_rewards", LoadRewards),
		maestro.NewStep("affordable_rewards", AffordableRewards),
	)
}

func LoadRewards(ctx *maestro.MaestroContext) error {
	var (
		ledger   *rewards.Ledger
		catalog  []rewards.Reward
		bookings []model.Booking
	)

	err := maestro.Parallel(
		func() (err error) {
			ledger, err = ctx.Client.Rewards.Ledger(ctx.Ctx, ctx.Session)
			return err
		},
		func() (err error) {
			catalog, err = ctx.Client.Rewards.Catalog(ctx.Ctx)
			return err
		},
		func() (err error) {
			bookings, err = ctx.Client.Bookings.ListMine(ctx.Ctx, ctx.Session)
			return err
		},
	)
	if err != nil {
		return err
	}

	ctx.Process["ledger"] = ledger
	ctx.Process["catalog"] = catalog
	ctx.Output["ledger"] = ledger
	ctx.Output["bookings"] = len(bookings)

	confirmed := 0
	for _, b := range bookings {
		if b.Status == model.BookingStatusConfirmed {
			confirmed++
		}
	}
	ctx.Output["confirmed_bookings"] = confirmed
	return nil
}

func AffordableRewards(ctx *maestro.MaestroContext) error {
	ledger := ctx.Process["ledger"].(*rewards.Ledger)
	catalog := ctx.Process["catalog"].([]rewards.Reward)

	sorted := append([]rewards.Reward(nil), catalog...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Points < sorted[j].Points })

	affordable := []rewards.Reward{}
	for _, r := range sorted {
		if r.Points <= ledger.Available {
			affordable = append(affordable, r)
			continue
		}
		ctx.Output["next_reward"] = r
		ctx.Output["points_to_next"] = r.Points - ledger.Available
		break
	}
	ctx.Output["affordable"] = affordable
	return nil
}
