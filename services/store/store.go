package store

import (
	"Squares/models"
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrAccountExists     = errors.New("account already exists")
)

// Ledger holds the mock balances. Debits that would leave a balance
// below zero fail with ErrInsufficientFunds.
type Ledger interface {
	Debit(ctx context.Context, userID string, amount decimal.Decimal) error
	Credit(ctx context.Context, userID string, amount decimal.Decimal) error
	Balance(ctx context.Context, userID string) (decimal.Decimal, error)
}

// Tx is the view of the store inside Store.Atomic. Every write made
// through it is applied together when the callback returns nil, or not at all.
// SaveGame persists the whole aggregate; payouts already stored are never rewritten.
type Tx interface {
	Ledger

	GetGame(ctx context.Context, gameID string) (*models.Game, error)
	CreateGame(ctx context.Context, game *models.Game) error
	SaveGame(ctx context.Context, game *models.Game) error
	DeleteGame(ctx context.Context, gameID string) error

	GetAccount(ctx context.Context, userID string) (*models.Account, error)
}

// Store is the durable home of games, payouts and accounts
type Store interface {
	Atomic(ctx context.Context, fn func(tx Tx) error) error

	GetGame(ctx context.Context, gameID string) (*models.Game, error)
	ListGames(ctx context.Context, filter models.GameFilter) ([]*models.Game, error)
	ListEntriesByUser(ctx context.Context, userID string) ([]models.Entry, error)
	ListPayoutsByUser(ctx context.Context, userID string) ([]models.Payout, error)

	CreateAccount(ctx context.Context, account *models.Account) error
	GetAccount(ctx context.Context, userID string) (*models.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	Balance(ctx context.Context, userID string) (decimal.Decimal, error)

	Ping(ctx context.Context) error
}
