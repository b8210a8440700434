package squares

import (
	"Squares/models"
	"context"

	"github.com/shopspring/decimal"
)

// Profile gathers a user's entries, winnings and created games
func (e *Engine) Profile(ctx context.Context, userID string) (*models.Profile, error) {
	account, err := e.store.GetAccount(ctx, userID)
	if err != nil {
		return nil, translate(err)
	}
	entries, err := e.store.ListEntriesByUser(ctx, userID)
	if err != nil {
		return nil, translate(err)
	}
	payouts, err := e.store.ListPayoutsByUser(ctx, userID)
	if err != nil {
		return nil, translate(err)
	}
	created, err := e.store.ListGames(ctx, models.GameFilter{CreatorID: userID})
	if err != nil {
		return nil, translate(err)
	}

	total := decimal.Zero
	for _, p := range payouts {
		total = total.Add(p.Amount)
	}
	return &models.Profile{
		User:          account,
		Entries:       entries,
		Payouts:       payouts,
		CreatedGames:  created,
		TotalWinnings: total,
		Balance:       account.MockBalance,
	}, nil
}
