package flows

import (
	maestro "concierge/internal/maestro/core"
	"concierge/pkg/client"
)

const (
	EMAIL         = "email"
	MEMBERSHIP_ID = "membership_id"
	PASSWORD      = "password"

	CHECKOUT_INPUT = "checkout_input"
	BOOKING        = "booking"
)

// Login authenticates the run's session with whichever credentials the input
// carries. A membership id takes precedence over an email.
func Login(ctx *maestro.MaestroContext) error {
	password, err := ctx.RequireString(PASSWORD)
	if err != nil {
		return err
	}

	var creds client.Credentials
	if membershipID := ctx.ExtractString(MEMBERSHIP_ID); !maestro.IsMissing(membershipID) {
		creds = client.MemberCredentials{MembershipID: membershipID, Password: password}
	} else {
		email, err := ctx.RequireString(EMAIL)
		if err != nil {
			return err
		}
		creds = client.UserCredentials{Email: email, Password: password}
	}

	result, err := ctx.Client.Auth.Login(ctx.Ctx, ctx.Session, creds)
	if err != nil {
		return err
	}
	ctx.Output["identity_kind"] = ctx.Session.Kind()
	if result.Member != nil {
		ctx.Output["tier"] = result.Member.Tier
	}
	return nil
}
