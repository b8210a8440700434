package postgres

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

/*
 * 'Game' defines the stored shape of a squares pool.
 * Claimed squares live in GameEntry rows, disbursements in Payout rows.
 */
type Game struct {
	ID            string          `gorm:"primaryKey;size:50;not null"`
	CreatorID     string          `gorm:"size:50;not null;index:idx_games_creator"`
	EventName     string          `gorm:"size:200;not null"`
	EntryFee      decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	Status        string          `gorm:"size:20;not null;default:'pending';index:idx_games_status"`
	RandomNumbers datatypes.JSON  `gorm:"type:jsonb;not null;default:'[]'"`
	QuarterScores datatypes.JSON  `gorm:"type:jsonb;not null;default:'{}'"`
	Winners       datatypes.JSON  `gorm:"type:jsonb;not null;default:'{}'"`
	CreatedAt     time.Time       `gorm:"default:CURRENT_TIMESTAMP;index:idx_games_created"`

	// Relationships
	Entries []GameEntry `gorm:"foreignKey:GameID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Payouts []Payout    `gorm:"foreignKey:GameID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
