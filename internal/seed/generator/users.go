package generator

import (
	"context"
	"fmt"

	"github.com/launchfolio/launchfolio/internal/auth/user"
)

var kycRotation = []user.KYCStatus{
	user.KYCStatusVerified,
	user.KYCStatusVerified,
	user.KYCStatusPending,
	user.KYCStatusNone,
}

// createUsers seeds creator, investor, and operator accounts. Creators
// are always verified so their proposals pass compliance checks;
// investors rotate through the KYC states.
func (g *Generator) createUsers(ctx context.Context) error {
	index := 0
	for i := 0; i < g.cfg.Creators; i++ {
		account, err := g.newUser(ctx, index, user.TierPremium, user.KYCStatusVerified, false)
		if err != nil {
			return err
		}
		g.creators = append(g.creators, account)
		index++
	}

	for i := 0; i < g.cfg.Investors; i++ {
		tier := user.TierFree
		if i%3 == 0 {
			tier = user.TierPremium
		}
		account, err := g.newUser(ctx, index, tier, kycRotation[i%len(kycRotation)], false)
		if err != nil {
			return err
		}
		g.investors = append(g.investors, account)
		index++
	}

	operator, err := g.newUser(ctx, index, user.TierPremium, user.KYCStatusVerified, true)
	if err != nil {
		return err
	}
	g.operator = operator

	g.logf("Created %d accounts\n", index+1)
	return nil
}

func (g *Generator) newUser(ctx context.Context, index int, tier user.Tier, kyc user.KYCStatus, admin bool) (user.User, error) {
	name := g.namer.personName(index)
	account, err := user.CreateUser(user.CreateUserInput{
		DisplayName: name,
		Email:       g.namer.email(name, index),
	}, nil, nil)
	if err != nil {
		return user.User{}, fmt.Errorf("create user %d: %w", index, err)
	}
	account.Tier = tier
	account.KYC = kyc
	account.Admin = admin
	if err := g.users.CreateUser(ctx, account); err != nil {
		return user.User{}, fmt.Errorf("store user %s: %w", account.Email, err)
	}
	return account, nil
}
