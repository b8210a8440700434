package postgres

import (
	"time"

	"github.com/shopspring/decimal"
)

/*
 * 'GameEntry' is a claimed square. The composite key makes a second
 * claim on the same square impossible at the database level.
 */
type GameEntry struct {
	// NOTE: composite primary key definition
	GameID       string          `gorm:"primaryKey;size:50;not null"`
	SquareNumber int             `gorm:"primaryKey;not null"`
	ID           string          `gorm:"size:50;not null;uniqueIndex"`
	UserID       string          `gorm:"size:50;not null;index:idx_game_entries_user"`
	UserName     string          `gorm:"size:100"`
	PaidAmount   decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	CreatedAt    time.Time       `gorm:"default:CURRENT_TIMESTAMP"`
}
