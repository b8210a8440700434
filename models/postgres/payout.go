package postgres

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payout rows are only ever inserted, at most one per game and quarter
type Payout struct {
	ID        string          `gorm:"primaryKey;size:50;not null"`
	GameID    string          `gorm:"size:50;not null;uniqueIndex:idx_payouts_game_quarter"`
	UserID    string          `gorm:"size:50;not null;index:idx_payouts_user"`
	Quarter   string          `gorm:"size:2;not null;uniqueIndex:idx_payouts_game_quarter"`
	Amount    decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	CreatedAt time.Time       `gorm:"default:CURRENT_TIMESTAMP"`
}
