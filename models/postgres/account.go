package postgres

import (
	"time"

	"github.com/shopspring/decimal"
)

/*
 * 'Account' contains the blueprint definition of a player and its mock balance.
 * The balance check constraint backs up the ledger's overdraft rejection.
 */
type Account struct {
	UserID       string          `gorm:"primaryKey;size:50;not null"`
	Email        string          `gorm:"size:100;not null;uniqueIndex"`
	Name         string          `gorm:"size:100;not null"`
	PasswordHash string          `gorm:"size:255;not null"`
	MockBalance  decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0;check:mock_balance >= 0"`
	CreatedAt    time.Time       `gorm:"default:CURRENT_TIMESTAMP"`
}
