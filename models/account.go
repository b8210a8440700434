package models

import (
	"time"

	"github.com/shopspring/decimal"
)

/*
 * 'Account' is the owner of a mock balance. The ledger debits entry fees
 * from it and credits refunds and payouts to it.
 */
type Account struct {
	UserID       string          `json:"user_id"`
	Email        string          `json:"email"`
	Name         string          `json:"name"`
	PasswordHash string          `json:"-"`
	MockBalance  decimal.Decimal `json:"mock_balance"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Profile aggregates a user's activity across every game
type Profile struct {
	User          *Account        `json:"user"`
	Entries       []Entry         `json:"entries"`
	Payouts       []Payout        `json:"payouts"`
	CreatedGames  []*Game         `json:"created_games"`
	TotalWinnings decimal.Decimal `json:"total_winnings"`
	Balance       decimal.Decimal `json:"balance"`
}

type SignUpRequest struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Name     string `json:"name" form:"name" binding:"required"`
	Password string `json:"password" form:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}
